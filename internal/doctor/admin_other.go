//go:build !windows

package doctor

import "context"

func checkAdmin(_ context.Context, _ Options) Check {
	return Check{Name: "administrator", Level: Skip, Detail: "only checked on Windows"}
}
