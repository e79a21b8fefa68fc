// Package tui holds the terminal front end of the pixelcfg CLI.
//
// The editor (Model, Run) shows one row per configuration field in page
// order. Free fields are edited in place with a text input and parsed with
// the same rules the controller applies, so a value such as "12px" shows
// up as 12 before it is ever sent. Select fields (pixel type, color order)
// cycle through their catalog with left/right.
//
// Applying sends only the changed fields through client.UpdateAndVerify and
// then shows what the controller actually stored. A failed verification
// keeps the pending edits so they can be corrected and applied again.
//
// Printer renders the boxed success and error output used by the
// non-interactive commands.
package tui
