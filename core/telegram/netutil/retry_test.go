package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return false }

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("bad request"), false},
		{"canceled", &url.Error{Op: "Post", URL: "x", Err: context.Canceled}, false},
		{"deadline", fmt.Errorf("wrap: %w", context.DeadlineExceeded), true},
		{"reset", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, true},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("no route")}, true},
		{"timeout", &url.Error{Op: "Post", URL: "x", Err: timeoutErr{}}, true},
	}
	for _, tc := range cases {
		if got := ShouldRetry(tc.err); got != tc.want {
			t.Errorf("%s: ShouldRetry=%v, want %v", tc.name, got, tc.want)
		}
	}
}
