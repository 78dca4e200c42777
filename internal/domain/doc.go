// Package domain defines the core business entities of the taskboard
// application: users, tasks, notifications, and refresh tokens.
package domain
