package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const apiVersion = "1.0.0"

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "RoboTurkiye API is running!", "version": apiVersion})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "API is working properly"})
}
