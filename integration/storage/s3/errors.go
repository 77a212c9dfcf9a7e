package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/staticserve/core/static"
)

// ErrInvalidConfig is returned by New when the bucket or region is missing.
var ErrInvalidConfig = errors.New("s3: bucket and region are required")

// classifyS3Error maps S3 errors onto the static.Resolver error contract.
func classifyS3Error(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Context errors pass through so the server reports an interrupted request.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", static.ErrNotFound, err)
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %s", static.ErrNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch code {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", static.ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %s operation", static.ErrPermission, operation)
		case "PreconditionFailed":
			// Object replaced between HEAD and GET.
			return fmt.Errorf("%s operation: object changed: %w", operation, err)
		default:
			return fmt.Errorf("%s operation failed (code: %s): %w", operation, code, err)
		}
	}

	return fmt.Errorf("%s operation failed: %w", operation, err)
}
