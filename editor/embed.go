// ABOUTME: Embedded filesystem for the editor's browser script.
// ABOUTME: Exports StaticFS so the server needs no runtime filesystem paths.
package editor

import "embed"

//go:embed static/*.js
var StaticFS embed.FS
