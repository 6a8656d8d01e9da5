package model

// Package model defines domain data structures shared by the core and the
// presentation layers: download jobs, the job events published by the
// coordinator, and the subscriber-side view state kept per URL.
