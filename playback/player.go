// Package playback verifies that a candidate stream URL actually plays by
// observing the liveness of an external media-player process.
package playback

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/whisper-darkly/stream-scout/logger"
)

// ErrPlayerNotFound means no external player executable exists on this
// machine. Fatal for the verification step: no candidate can be checked.
var ErrPlayerNotFound = errors.New("VLC not found in common installation paths")

// vlcSearchPaths are the known install locations checked before $PATH.
var vlcSearchPaths = []string{
	"/usr/bin/vlc",
	"/usr/local/bin/vlc",
	"/snap/bin/vlc",
	"/Applications/VLC.app/Contents/MacOS/VLC",
	`C:\Program Files\VideoLAN\VLC\vlc.exe`,
	`C:\Program Files (x86)\VideoLAN\VLC\vlc.exe`,
}

// LocateVLC finds the VLC executable, or fails with ErrPlayerNotFound.
func LocateVLC() (string, error) {
	for _, p := range vlcSearchPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if p, err := exec.LookPath("vlc"); err == nil {
		return p, nil
	}
	return "", ErrPlayerNotFound
}

// Process is a running player instance owned by the verifier.
type Process interface {
	// Alive reports whether the player is still running.
	Alive() bool
	// Stop terminates the player and waits for it to exit.
	Stop()
}

// Launcher spawns a player process for one candidate link.
type Launcher interface {
	Launch(link string) (Process, error)
}

// VLC launches the VLC executable with a single stream-URL argument. Its
// exit status and ongoing liveness are the only observed signals.
type VLC struct {
	path string
	log  *logger.Logger
}

// NewVLC locates the VLC executable and returns a launcher for it.
func NewVLC(log *logger.Logger) (*VLC, error) {
	path, err := LocateVLC()
	if err != nil {
		return nil, err
	}
	log.Debug("using player at %s", path)
	return &VLC{path: path, log: log}, nil
}

func (v *VLC) Launch(link string) (Process, error) {
	cmd := exec.Command(v.path, link)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start player: %w", err)
	}

	p := &playerProcess{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

type playerProcess struct {
	cmd  *exec.Cmd
	done chan struct{}
}

func (p *playerProcess) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *playerProcess) Stop() {
	if !p.Alive() {
		return
	}
	_ = p.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		_ = p.cmd.Process.Kill()
		<-p.done
	}
}
