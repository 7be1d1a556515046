package cmd

import (
	"context"

	"github.com/virtualta/forumqa/core/config"
	"github.com/virtualta/forumqa/core/file_store"
	"github.com/virtualta/forumqa/core/vector_store"
	"github.com/virtualta/forumqa/internal/dao"
	"github.com/gogf/gf/v2/frame/g"
)

// init initializes all components of the application
func init() {
	ctx := context.Background()

	// Validate configuration before initializing components
	g.Log().Info(ctx, "Validating application configuration...")
	err := config.ValidateConfiguration(ctx)
	if err != nil {
		g.Log().Fatalf(ctx, "Configuration validation failed:\n%v", err)
	}

	// Initialize database (includes auto-migration)
	err = dao.InitDB()
	if err != nil {
		g.Log().Fatalf(ctx, "Database connection initialization failed: %v", err)
	}

	// Initialize archive storage
	_, err = file_store.GetArchiveStore()
	if err != nil {
		g.Log().Fatalf(ctx, "Archive store initialization failed: %v", err)
	}

	// Initialize vector database
	_, err = vector_store.GetVectorStore()
	if err != nil {
		g.Log().Fatalf(ctx, "Vector store initialization failed: %v", err)
	}

	g.Log().Info(ctx, "✓ All components initialized successfully")
}
