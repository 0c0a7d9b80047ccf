package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 response.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Message writes {"message": message}.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Created writes 201 {"message": message, key: resource}.
func Created(c *gin.Context, message, key string, resource any) {
	c.JSON(http.StatusCreated, gin.H{"message": message, key: resource})
}

// Updated writes 200 {"message": message, key: resource}.
func Updated(c *gin.Context, message, key string, resource any) {
	c.JSON(http.StatusOK, gin.H{"message": message, key: resource})
}
