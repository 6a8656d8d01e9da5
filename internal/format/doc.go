// Package format holds the static catalog of output formats: how the engine is
// invoked for each key and which codec, if any, dictates the final extension.
package format
