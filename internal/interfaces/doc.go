// Package interfaces documents the core abstractions used throughout the application.
//
// # Data Access Interfaces
//
// Controllers depend on narrow store interfaces rather than concrete
// repositories:
//
//   - UserStore: profile access (internal/http/users.go)
//   - MemberStore: family membership operations (internal/http/families.go)
//   - FamilyStore: family lifecycle and stats (internal/http/families.go)
//   - BookStore: book catalog and shelves (internal/http/books.go)
//   - StreamingStore: streaming catalog, watchlists and episodes (internal/http/streaming.go)
//   - GoalStore: yearly reading goals (internal/http/goals.go)
//   - ActivityRecorder: the family activity feed (internal/http/families.go)
//
// # Background Task Interfaces
//
//   - TokenCleaner: expired credential token cleanup (internal/tasks/cleanup_tokens.go)
//   - ActivityCleaner: activity feed retention (internal/tasks/cleanup_activities.go)
//
// All of these are satisfied by the repositories under internal/database.
// The checks in this package pin that down at compile time, so a repository
// method change that breaks a controller fails the build here first.
package interfaces
