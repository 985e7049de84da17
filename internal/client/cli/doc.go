// Package cli provides the ConnectLink terminal client.
//
// Commands are built with cobra. The session (token and last known user)
// lives in a local SQLite file and is revalidated against GET /auth/me on
// every command that needs it. After register and login the client applies
// the profile completion gate: users who have not saved a profile yet are
// pointed at onboarding, everyone else at the dashboard.
package cli
