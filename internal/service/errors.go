package service

import (
	"fmt"

	"github.com/pkg/errors"
)

// 业务错误，handler层统一用errors.Is映射成HTTP状态码
var (
	ErrPlatformNotFound   = errors.New("platform not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrDuplicateVideo     = errors.New("video already exists")
	ErrCommitFailed       = errors.New("commit failed")
	ErrVideoNotFound      = errors.New("video not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyLiked       = errors.New("review already liked")
	ErrNotLiked           = errors.New("review not liked")
	ErrLikeRequiresReview = errors.New("like requires a review")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// CommitError 提交阶段的存储错误，errors.Is(err, ErrCommitFailed)成立，同时保留原始错误
type CommitError struct {
	Cause error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s: %v", ErrCommitFailed, e.Cause)
}

func (e *CommitError) Unwrap() error {
	return e.Cause
}

func (e *CommitError) Is(target error) bool {
	return target == ErrCommitFailed
}

// 评分只能是1~5
func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errors.Wrapf(ErrInvalidRating, "got %d", rating)
	}
	return nil
}
