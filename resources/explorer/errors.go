package explorer

import (
	"errors"

	"github.com/aws/smithy-go"
)

var (
	// ErrSession means the profile could not be turned into AWS clients
	ErrSession = errors.New("failed to create resource explorer client")
	// ErrViewCreation means the temporary view could not be created
	ErrViewCreation = errors.New("failed to create view")
	// ErrViewDeletion means the temporary view could not be deleted
	ErrViewDeletion = errors.New("failed to delete view")
	// ErrSupportedTypes means the supported resource type list is incomplete
	ErrSupportedTypes = errors.New("failed to get supported resource types")
	// ErrQuery means a search query was abandoned
	ErrQuery = errors.New("search query failed")

	// ErrRepeatedToken means the API returned a continuation token it had
	// already returned for the same query
	ErrRepeatedToken = errors.New("repeated continuation token")
	// ErrPageLimit means a query exceeded the configured page limit
	ErrPageLimit = errors.New("page limit reached")
)

// ErrorCode returns the AWS API error code wrapped in err, or "" if there is none
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
