package endpoints

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/nationslab/lms-course-api/backend/internal/course"
)

type courseCreated struct {
	Message string         `json:"message"`
	Course  *course.Course `json:"course"`
}

// CoursesCreate materializes a course skeleton from the JSON body. Missing
// required fields are rejected before anything is written.
func CoursesCreate(ctx context.Context, request events.APIGatewayV2HTTPRequest, deps Dependencies) (events.APIGatewayV2HTTPResponse, error) {
	req, err := decodeCourseRequest(request)
	if err != nil {
		deps.logger().WarnContext(ctx, "invalid course body", "error", err)
		return clientError(http.StatusBadRequest, "Invalid request body", deps.Headers), nil
	}
	if err := req.Validate(); err != nil {
		return clientError(http.StatusBadRequest, err.Error(), deps.Headers), nil
	}

	created, err := course.Create(ctx, deps.Storage, req, deps.now())
	if err != nil {
		return errorResponse(ctx, deps, "create_course", err), nil
	}

	deps.logger().InfoContext(ctx, "course created", "path", created.Path)
	return jsonResponse(http.StatusOK, courseCreated{
		Message: "Course created successfully",
		Course:  created,
	}, deps.Headers), nil
}

func decodeCourseRequest(request events.APIGatewayV2HTTPRequest) (course.CreateRequest, error) {
	var req course.CreateRequest
	err := decodeBody(request, &req)
	return req, err
}
