// Package context holds the objects shared by the app and cli packages, such
// as the filesystem, the logger and the loaded configuration. It's separate
// from the app package to avoid a circular import.
package context
