package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/famhub/famhub/internal/database/activities"
	"github.com/famhub/famhub/internal/database/books"
	"github.com/famhub/famhub/internal/database/families"
	"github.com/famhub/famhub/internal/database/goals"
	"github.com/famhub/famhub/internal/database/streaming"
	"github.com/famhub/famhub/internal/database/users"
	"github.com/famhub/famhub/internal/http"
	"github.com/famhub/famhub/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// UserStore implementations
var _ http.UserStore = (*users.Repository)(nil)

// MemberStore implementations
var _ http.MemberStore = (*users.Repository)(nil)

// FamilyStore implementations
var _ http.FamilyStore = (*families.Repository)(nil)

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)

// StreamingStore implementations
var _ http.StreamingStore = (*streaming.Repository)(nil)

// GoalStore implementations
var _ http.GoalStore = (*goals.Repository)(nil)

// ActivityRecorder implementations
var _ http.ActivityRecorder = (*activities.Repository)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

// TokenCleaner implementations
var _ tasks.TokenCleaner = (*users.Repository)(nil)

// ActivityCleaner implementations
var _ tasks.ActivityCleaner = (*activities.Repository)(nil)
