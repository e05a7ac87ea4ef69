// Package testutil provides test fixtures and utilities.
//
// # Fixtures
//
// Source lists are embedded using go:embed:
//
//	fixtures/public-resolvers.md
//	fixtures/relays.md
//
// # Signed Sources
//
// A Signer produces minisign signatures from a fixed seed, and a
// SourceServer publishes lists with their .minisig files over HTTP:
//
//	signer := testutil.NewSigner(1)
//	srv := testutil.NewSourceServer(t)
//	url := srv.Publish("/relays.md", testutil.MustFixture("relays.md"), signer)
//
// # Environments
//
// NewTestEnv combines both and writes a dnscrypt-proxy.toml pointing at the
// server:
//
//	env := testutil.NewTestEnv(t)
//	env.AddSource("relays", "relays.md")
//	doc, err := config.LoadDocument(env.ConfigPath())
package testutil
