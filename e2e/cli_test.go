package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superawesomeme/La-Palabra-Negra/internal/api"
	"github.com/superawesomeme/La-Palabra-Negra/internal/factory"
	providermocks "github.com/superawesomeme/La-Palabra-Negra/internal/provider/mocks"
	"github.com/superawesomeme/La-Palabra-Negra/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "palabra-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/palabra")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithPassphrase(passphrase string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--passphrase", passphrase,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	provider *providermocks.MockProvider
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{
		Logger:       logger,
		ProviderType: factory.ProviderTypeMock,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		SessionService: app.SessionService,
		RosterService:  app.RosterService,
		TopicsService:  app.TopicsService,
		RoundEngine:    app.RoundEngine,
		Clock:          app.Clock,
		HubManager:     app.HubManager,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr:     serverURL,
		provider: app.Provider.(*providermocks.MockProvider),
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type sessionResponse struct {
	Code    string `json:"code"`
	Phase   string `json:"phase"`
	Players []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Score int    `json:"score"`
	} `json:"players"`
	EnabledThemes []string       `json:"enabled_themes"`
	Round         *roundResponse `json:"round"`
	HostProtected bool           `json:"host_protected"`
}

type roundResponse struct {
	Category      string `json:"category"`
	ForbiddenWord string `json:"forbidden_word"`
	TurnPlayerID  string `json:"turn_player_id"`
	Guesses       []struct {
		PlayerID string `json:"player_id"`
		Text     string `json:"text"`
	} `json:"guesses"`
	Results []struct {
		PlayerID  string `json:"player_id"`
		Guess     string `json:"guess"`
		Valid     bool   `json:"valid"`
		Forbidden bool   `json:"forbidden"`
		Points    int    `json:"points"`
	} `json:"results"`
	FailureStage string `json:"failure_stage"`
}

type themeCatalogResponse struct {
	Themes []struct {
		Name    string   `json:"name"`
		Prompts []string `json:"prompts"`
	} `json:"themes"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// waitForPhase polls session get until the session reaches the phase
func waitForPhase(t *testing.T, cli *cliRunner, code, phase string) sessionResponse {
	t.Helper()

	var session sessionResponse
	require.Eventually(t, func() bool {
		output, err := cli.run("session", "get", code)
		if err != nil {
			return false
		}
		if err := json.Unmarshal([]byte(output), &session); err != nil {
			return false
		}
		return session.Phase == phase
	}, 2*time.Second, 25*time.Millisecond, "session never reached phase %s", phase)
	return session
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_SessionCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create with explicit names
	output, err := cli.run("session", "create", "Ana", "Luis")
	require.NoError(t, err, "output: %s", output)

	var created sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Len(t, created.Code, 6)
	assert.Equal(t, "idle", created.Phase)
	require.Len(t, created.Players, 2)
	assert.Equal(t, "Ana", created.Players[0].Name)
	assert.Len(t, created.EnabledThemes, 8)
	assert.False(t, created.HostProtected)

	// Get round-trips
	output, err = cli.run("session", "get", created.Code)
	require.NoError(t, err, "output: %s", output)

	var fetched sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &fetched))
	assert.Equal(t, created.Code, fetched.Code)

	// Delete
	output, err = cli.run("session", "delete", created.Code)
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Equal(t, "Session ended", msg.Message)

	_, err = cli.run("session", "get", created.Code)
	require.Error(t, err)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("session", "create", "Ana")
	require.NoError(t, err, "output: %s", output)
	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	code := session.Code

	// Add with a name and without
	output, err = cli.run("player", "add", code, "Luis")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("player", "add", code)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("session", "get", code)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	require.Len(t, session.Players, 3)
	assert.Equal(t, "Luis", session.Players[1].Name)
	assert.Equal(t, "Jugador 3", session.Players[2].Name)

	// Rename
	output, err = cli.run("player", "rename", code, session.Players[1].ID, "Lucía")
	require.NoError(t, err, "output: %s", output)

	// Remove
	output, err = cli.run("player", "remove", code, session.Players[2].ID)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("session", "get", code)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	require.Len(t, session.Players, 2)
	assert.Equal(t, "Lucía", session.Players[1].Name)
}

func TestCLI_ThemeCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("theme", "list")
	require.NoError(t, err, "output: %s", output)

	var catalog themeCatalogResponse
	require.NoError(t, json.Unmarshal([]byte(output), &catalog))
	require.Len(t, catalog.Themes, 8)
	assert.Equal(t, "Geografía y Lugares", catalog.Themes[0].Name)
	assert.NotEmpty(t, catalog.Themes[0].Prompts)

	output, err = cli.run("session", "create")
	require.NoError(t, err, "output: %s", output)
	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &session))

	output, err = cli.run("theme", "toggle", session.Code, "Animales")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	assert.Len(t, session.EnabledThemes, 7)
	assert.NotContains(t, session.EnabledThemes, "Animales")
}

func TestCLI_RoundFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("session", "create", "Ana", "Luis")
	require.NoError(t, err, "output: %s", output)
	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	code := session.Code

	ts.provider.QueueRound("Un color", "Rojo")
	ts.provider.SetJudgment("Azul", true, false)
	ts.provider.SetJudgment("Rojo", true, true)

	output, err = cli.run("round", "start", code)
	require.NoError(t, err, "output: %s", output)

	session = waitForPhase(t, cli, code, "collecting_guesses")
	require.NotNil(t, session.Round)
	assert.Equal(t, "Un color", session.Round.Category)
	// Forbidden word stays hidden while guessing
	assert.Empty(t, session.Round.ForbiddenWord)
	assert.Equal(t, session.Players[0].ID, session.Round.TurnPlayerID)

	output, err = cli.run("round", "guess", code, "Azul")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("round", "guess", code, "Rojo")
	require.NoError(t, err, "output: %s", output)

	session = waitForPhase(t, cli, code, "round_complete")
	require.NotNil(t, session.Round)
	assert.Equal(t, "Rojo", session.Round.ForbiddenWord)
	require.Len(t, session.Round.Results, 2)
	assert.Equal(t, 1, session.Round.Results[0].Points)
	assert.Equal(t, 0, session.Round.Results[1].Points)
	assert.True(t, session.Round.Results[1].Forbidden)
	assert.Equal(t, 1, session.Players[0].Score)

	// Abandon keeps scores. Decode into a fresh value: the idle
	// session omits the round field, which would leave stale state
	// behind on reuse.
	output, err = cli.run("round", "abandon", code)
	require.NoError(t, err, "output: %s", output)
	var abandoned sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &abandoned))
	assert.Equal(t, "idle", abandoned.Phase)
	assert.Nil(t, abandoned.Round)
	assert.Equal(t, 1, abandoned.Players[0].Score)
}

func TestCLI_RoundRetry(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("session", "create", "Ana")
	require.NoError(t, err, "output: %s", output)
	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	code := session.Code

	// Nothing queued, so content generation fails
	output, err = cli.run("round", "start", code)
	require.NoError(t, err, "output: %s", output)

	session = waitForPhase(t, cli, code, "failed")
	require.NotNil(t, session.Round)
	assert.Equal(t, "content", session.Round.FailureStage)

	ts.provider.QueueRound("Un animal", "Perro")

	output, err = cli.run("round", "retry", code)
	require.NoError(t, err, "output: %s", output)

	session = waitForPhase(t, cli, code, "collecting_guesses")
	assert.Equal(t, "Un animal", session.Round.Category)
}

func TestCLI_HostPassphrase(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("session", "create", "Ana", "--host-passphrase", "secreto")
	require.NoError(t, err, "output: %s", output)
	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	assert.True(t, session.HostProtected)
	code := session.Code

	// Mutation without the passphrase is rejected
	output, err = cli.run("player", "add", code, "Luis")
	require.Error(t, err, "output: %s", output)

	// With the passphrase it goes through
	output, err = cli.runWithPassphrase("secreto", "player", "add", code, "Luis")
	require.NoError(t, err, "output: %s", output)

	// Reads stay open
	output, err = cli.run("session", "get", code)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	assert.Len(t, session.Players, 2)
}

func TestCLI_InvalidCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Unknown session
	output, err := cli.run("session", "get", "NOPE99")
	require.Error(t, err, "output: %s", output)

	// Guess with no round running
	out, err := cli.run("session", "create", "Ana")
	require.NoError(t, err)
	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &session))

	output, err = cli.run("round", "guess", session.Code, "Azul")
	require.Error(t, err, "output: %s", output)
	assert.Contains(t, output, "NOT_COLLECTING")
}
