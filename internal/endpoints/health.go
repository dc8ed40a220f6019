package endpoints

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

type healthStatus struct {
	Status string `json:"status"`
	Bucket string `json:"bucket"`
}

// Health reports liveness without touching the bucket.
func Health(_ context.Context, _ events.APIGatewayV2HTTPRequest, deps Dependencies) (events.APIGatewayV2HTTPResponse, error) {
	return jsonResponse(http.StatusOK, healthStatus{Status: "ok", Bucket: deps.Bucket}, deps.Headers), nil
}
