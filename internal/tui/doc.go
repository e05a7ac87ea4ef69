// Package tui provides terminal user interface components for stampwall.
//
// This package uses the Bubble Tea framework for the interactive source
// picker behind `stampwall render --pick`.
//
// # Source Picker
//
// The picker lists the complete sources of a dnscrypt-proxy configuration
// and lets the operator choose which of them to render:
//
//	names, err := tui.RunSourcePicker(doc.Sources)
//	if errors.Is(err, tui.ErrAborted) {
//	    // Nothing selected
//	}
//	doc = doc.Filter(names)
//
// # Picker Features
//
//   - Keyboard navigation (j/k or arrows) and filtering with /
//   - space toggles the highlighted source, a selects or clears all
//   - enter confirms; with nothing toggled the highlighted source is used
//   - q or esc aborts
package tui
