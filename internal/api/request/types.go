package request

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	PlayerNames    []string `json:"player_names,omitempty"`
	HostPassphrase string   `json:"host_passphrase,omitempty"`
}

// AddPlayerRequest is the request body for adding a player
type AddPlayerRequest struct {
	Name string `json:"name,omitempty"`
}

// RenamePlayerRequest is the request body for renaming a player
type RenamePlayerRequest struct {
	Name string `json:"name"`
}

// ToggleThemeRequest is the request body for toggling a theme
type ToggleThemeRequest struct {
	Theme string `json:"theme"`
}

// SubmitGuessRequest is the request body for submitting a guess
type SubmitGuessRequest struct {
	Guess string `json:"guess"`
}
