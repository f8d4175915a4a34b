// Package services hosts clients for the external collaborators SafeMedia
// depends on, plus the shared error classification they report failures with.
package services
