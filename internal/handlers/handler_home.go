package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HomeMessage is the liveness banner served at the root path.
const HomeMessage = "Cash Plus server is running."

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce plain
// @Success 200 {string} string "Cash Plus server is running."
// @Router / [get]
func getHome(c *gin.Context) {
	c.String(http.StatusOK, HomeMessage)
}

// getHealth godoc
// @Summary Health check
// @Tags root
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
