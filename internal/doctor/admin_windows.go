//go:build windows

package doctor

import (
	"context"

	"golang.org/x/sys/windows"
)

func checkAdmin(_ context.Context, _ Options) Check {
	c := Check{Name: "administrator"}
	if windows.GetCurrentProcessToken().IsElevated() {
		c.Detail = "running elevated"
		return c
	}
	c.Level, c.Detail = Warn, "not elevated; installers will ask for permission"
	return c
}
