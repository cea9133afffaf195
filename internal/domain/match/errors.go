package match

import "errors"

// Sentinel kinds for match simulation. Both indicate a caller contract
// violation rather than a recoverable state.
var (
	ErrNoAppearances = errors.New("no appearances to simulate")
	ErrNoContenders  = errors.New("no competing appearances")
)
