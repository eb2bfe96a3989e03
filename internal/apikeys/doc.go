// Package apikeys manages the console's API keys: generation, rotation,
// deprecation and deletion.
//
// Secrets are generated from crypto/rand and shown in full exactly once, at
// generation or rotation time. Listings return a masked form (prefix plus
// filler); the full secret is available through an explicit reveal.
//
// Rotation is simulated as a short run: the key shows as rotating while the
// replacement secret is minted, then returns to active with a fresh created
// stamp. Rotating a key that is already mid-rotation replaces the pending
// rotation.
package apikeys
