package util
import (
	"errors"
)

var (
	ErrInsufficientCapacity = errors.New("stegano: insufficient carrier capacity")
	ErrTruncatedHeader = errors.New("stegano: truncated header")
	ErrTruncatedPayload = errors.New("stegano: truncated payload")
	ErrInvalidParameter = errors.New("stegano: invalid parameter")
)
