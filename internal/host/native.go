// Package host provides a native HostProvider for running the App Pass
// SDK outside a browser-extension runtime. Origin grants persist to a
// JSON file, interactive requests go through an injectable prompt, and
// tabs open in the default web browser.
package host

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/chrome-stats/app-pass-sdk/internal/browser"
	"github.com/chrome-stats/app-pass-sdk/sdk/apppass"
)

// Prompt asks the user a yes/no question and reports consent.
type Prompt func(question string) bool

// Options configures a Native host provider.
type Options struct {
	// GrantsPath is the JSON file holding origin grants. Defaults to
	// ~/.app-pass/grants.json.
	GrantsPath string

	// SelfID identifies this install. A random identifier is generated
	// when empty.
	SelfID string

	// Prompt handles interactive grant requests. Defaults to a stdin
	// y/N prompt.
	Prompt Prompt
}

// Native implements apppass.HostProvider backed by the local filesystem
// and the default web browser.
type Native struct {
	mu         sync.Mutex
	grantsPath string
	selfID     string
	prompt     Prompt
}

var _ apppass.HostProvider = (*Native)(nil)

// NewNative builds a Native host provider from opts.
func NewNative(opts Options) (*Native, error) {
	grantsPath := strings.TrimSpace(opts.GrantsPath)
	if grantsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("host: resolve home directory failed: %w", err)
		}
		grantsPath = filepath.Join(home, ".app-pass", "grants.json")
	}

	selfID := strings.TrimSpace(opts.SelfID)
	if selfID == "" {
		selfID = uuid.New().String()
	}

	prompt := opts.Prompt
	if prompt == nil {
		prompt = stdinPrompt
	}

	return &Native{
		grantsPath: grantsPath,
		selfID:     selfID,
		prompt:     prompt,
	}, nil
}

// grantsFile is the on-disk shape of the origin grant store.
type grantsFile struct {
	Origins map[string]bool `json:"origins"`
}

// HasOrigin reports whether a persisted grant covers origin. Read
// failures count as no grant.
func (n *Native) HasOrigin(_ context.Context, origin string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	grants, err := n.loadGrantsLocked()
	if err != nil {
		log.Warnf("host: read grants failed: %v", err)
		return false
	}
	return grants.Origins[origin]
}

// RequestOrigin runs the interactive grant flow for origin and persists
// an obtained grant. An existing grant is returned without prompting.
func (n *Native) RequestOrigin(ctx context.Context, origin string) bool {
	if n.HasOrigin(ctx, origin) {
		return true
	}
	if ctx.Err() != nil {
		return false
	}
	if !n.prompt(fmt.Sprintf("Allow App Pass checks against %s?", origin)) {
		return false
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	grants, err := n.loadGrantsLocked()
	if err != nil {
		grants = &grantsFile{}
	}
	if grants.Origins == nil {
		grants.Origins = make(map[string]bool)
	}
	grants.Origins[origin] = true

	if err = n.saveGrantsLocked(grants); err != nil {
		log.Errorf("host: persist grant failed: %v", err)
		return false
	}
	return true
}

// OpenTab opens the given URL in a new browser tab.
func (n *Native) OpenTab(url string) error {
	return browser.OpenURL(url)
}

// SelfID returns the identity of this install.
func (n *Native) SelfID() string {
	return n.selfID
}

func (n *Native) loadGrantsLocked() (*grantsFile, error) {
	data, err := os.ReadFile(n.grantsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &grantsFile{}, nil
		}
		return nil, err
	}

	var grants grantsFile
	if err = json.Unmarshal(data, &grants); err != nil {
		return nil, fmt.Errorf("parse %s failed: %w", n.grantsPath, err)
	}
	return &grants, nil
}

func (n *Native) saveGrantsLocked(grants *grantsFile) error {
	if err := os.MkdirAll(filepath.Dir(n.grantsPath), 0o700); err != nil {
		return fmt.Errorf("create grants dir failed: %w", err)
	}
	raw, err := json.Marshal(grants)
	if err != nil {
		return fmt.Errorf("marshal grants failed: %w", err)
	}
	if err = os.WriteFile(n.grantsPath, raw, 0o600); err != nil {
		return fmt.Errorf("write grants failed: %w", err)
	}
	return nil
}

// stdinPrompt asks on stdout and reads a y/N answer from stdin. Any
// read failure counts as a decline.
func stdinPrompt(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
