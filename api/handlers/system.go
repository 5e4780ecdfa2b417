package handlers

import (
	"github.com/Aidin1998/apishape/api/exception"
	"github.com/Aidin1998/apishape/api/responses"
	"github.com/Aidin1998/apishape/common/errors"
	"github.com/gin-gonic/gin"
)

// HealthStatus is the data of a health check response
type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

// Health reports that the service is up
func Health(environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		responses.From(c).OK(HealthStatus{Status: "ok", Environment: environment})
	}
}

// NoRoute answers requests that matched no route
func NoRoute() gin.HandlerFunc {
	return exception.Handle(func(c *gin.Context) error {
		return errors.NotFound("Route not found")
	})
}

// NoMethod answers requests whose path exists for another method
func NoMethod() gin.HandlerFunc {
	return exception.Handle(func(c *gin.Context) error {
		return errors.MethodNotAllowed("Method not allowed")
	})
}
