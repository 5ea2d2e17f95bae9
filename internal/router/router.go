package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipebox/backend/internal/api"
	"github.com/recipebox/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	userHandler *api.UserHandler,
	tagHandler *api.TagHandler,
	ingredientHandler *api.IngredientHandler,
	recipeHandler *api.RecipeHandler,
	validator middleware.TokenValidator,
	uploadLimiter *middleware.RateLimiter,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	router.Use(middleware.CORS(allowedOrigins))

	v1 := router.Group("/api/v1")

	// Public user routes
	user := v1.Group("/user")
	{
		user.POST("/create", userHandler.Register)
		user.POST("/token", userHandler.Token)
	}

	// Profile routes
	me := user.Group("/me")
	me.Use(middleware.AuthMiddleware(validator))
	{
		me.GET("", userHandler.Me)
		me.PATCH("", userHandler.UpdateMe)
	}

	// Protected resource routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		tags := protected.Group("/tags")
		{
			tags.GET("", tagHandler.ListTags)
			tags.POST("", tagHandler.CreateTag)
			tags.DELETE("/:id", tagHandler.DeleteTag)
		}

		ingredients := protected.Group("/ingredients")
		{
			ingredients.GET("", ingredientHandler.ListIngredients)
			ingredients.POST("", ingredientHandler.CreateIngredient)
			ingredients.DELETE("/:id", ingredientHandler.DeleteIngredient)
		}

		recipes := protected.Group("/recipes")
		{
			recipes.GET("", recipeHandler.ListRecipes)
			recipes.POST("", recipeHandler.CreateRecipe)
			recipes.GET("/:id", recipeHandler.GetRecipe)
			recipes.PUT("/:id", recipeHandler.UpdateRecipe)
			recipes.PATCH("/:id", recipeHandler.PatchRecipe)
			recipes.DELETE("/:id", recipeHandler.DeleteRecipe)

			upload := recipes.Group("")
			if uploadLimiter != nil {
				upload.Use(uploadLimiter.RateLimitMiddleware())
			}
			upload.POST("/:id/upload-image", recipeHandler.UploadImage)
		}
	}

	return router
}
