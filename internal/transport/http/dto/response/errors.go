package response

var (
	ErrBlogNotFound = ErrorResponse{
		Error: "Blog not found",
	}

	ErrInvalidBlogID = ErrorResponse{
		Error: "Invalid blog ID",
	}

	ErrRequiredFields = ErrorResponse{
		Error: "heading and content are required",
	}

	ErrInvalidRequestFormat = ErrorResponse{
		Error: "invalid request body",
	}

	ErrInternal = ErrorResponse{
		Error: "Internal server error",
	}
)
