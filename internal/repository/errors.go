// Package repository implements persistence for users, refresh tokens,
// reservations and availability settings over database/sql.  Sentinel
// errors defined here let handlers distinguish failure scenarios without
// inspecting driver messages.
package repository

import "errors"

// ErrEmailExists is returned by UserRepo.Create when the email is
// already registered.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
