// Package audio handles uploaded recordings before they are transcribed:
// format and size checks, streaming them into a temporary directory under a
// collision-free name, and removing them afterwards.
//
// Processing is a pass-through. The backends accept the supported formats
// directly, so no conversion, normalization or noise reduction is done.
package audio
