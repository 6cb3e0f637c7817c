// Package css generates the fonts.css stylesheet artifact.
//
// One @font-face rule is emitted per variant that survived the
// pipeline, referencing the converted file by bare relative filename
// (the stylesheet always sits in the same directory as the fonts).
// Ordering is weight ascending with normal before italic, so output is
// reproducible byte-for-byte.
//
// Write uses write-to-temp-then-rename so the artifact is replaced
// atomically and is never observable half-written, and refuses to write
// a stylesheet with zero entries.
package css
