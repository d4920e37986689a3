// Package render turns a panel's sample window into cells.
//
// Values are normalized over the visible window, quantized onto a GlyphTable
// and drawn right-aligned into a tui.Region below a one-row header. Nothing
// here touches the terminal; the compositor owns output.
package render
