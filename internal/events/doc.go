// Package events delivers coordinator job events to the presentation layer.
//
// The coordinator publishes from its worker goroutine; handlers run on the
// bus dispatcher goroutine, one at a time, in publish order. Subscribers
// that own a UI thread (fyne) marshal onto it from inside their handlers.
package events
