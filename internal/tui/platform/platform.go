package platform

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
)

func ValidateArticleURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("article has no URL")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

func OpenURLInBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Run()
}

func selectClipboardCommand(lookup func(string) (string, error)) ([]string, error) {
	commands := [][]string{
		{"pbcopy"},
		{"xclip", "-selection", "clipboard"},
		{"wl-copy"},
	}
	for _, c := range commands {
		if _, err := lookup(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no clipboard command available")
}

func CopyToClipboard(text string) error {
	c, err := selectClipboardCommand(exec.LookPath)
	if err != nil {
		return err
	}
	cmd := exec.Command(c[0], c[1:]...)
	cmd.Stdin = bytes.NewBufferString(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// audioPlayers lists playback commands in preference order. Each takes
// the audio file path as its final argument.
var audioPlayers = [][]string{
	{"afplay"},
	{"mpv", "--no-video", "--really-quiet"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
}

func selectAudioCommand(lookup func(string) (string, error)) ([]string, error) {
	for _, c := range audioPlayers {
		if _, err := lookup(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no audio player available (need afplay, mpv or ffplay)")
}

func extensionForContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "wav"):
		return ".wav"
	case strings.Contains(contentType, "ogg"):
		return ".ogg"
	default:
		return ".mp3"
	}
}

// Player plays one audio clip through an external command. Pause and
// resume work by stopping and continuing the player process, which
// keeps the clip's position without any audio decoding on our side.
type Player struct {
	cmd  *exec.Cmd
	file string
}

// StartPlayer writes the clip to a temp file and starts playback.
func StartPlayer(audio []byte, contentType string) (*Player, error) {
	command, err := selectAudioCommand(exec.LookPath)
	if err != nil {
		return nil, err
	}

	file, err := os.CreateTemp("", "lector-narration-*"+extensionForContentType(contentType))
	if err != nil {
		return nil, fmt.Errorf("create audio temp file: %w", err)
	}
	if _, err := file.Write(audio); err != nil {
		file.Close()
		os.Remove(file.Name())
		return nil, fmt.Errorf("write audio temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return nil, fmt.Errorf("close audio temp file: %w", err)
	}

	args := append(append([]string(nil), command[1:]...), file.Name())
	cmd := exec.Command(command[0], args...)
	if err := cmd.Start(); err != nil {
		os.Remove(file.Name())
		return nil, fmt.Errorf("start audio player: %w", err)
	}
	return &Player{cmd: cmd, file: file.Name()}, nil
}

func (p *Player) Pause() error {
	if err := p.cmd.Process.Signal(syscall.SIGSTOP); err != nil {
		return fmt.Errorf("pause playback: %w", err)
	}
	return nil
}

func (p *Player) Resume() error {
	if err := p.cmd.Process.Signal(syscall.SIGCONT); err != nil {
		return fmt.Errorf("resume playback: %w", err)
	}
	return nil
}

func (p *Player) Stop() error {
	err := p.cmd.Process.Kill()
	os.Remove(p.file)
	if err != nil {
		return fmt.Errorf("stop playback: %w", err)
	}
	return nil
}

// Wait blocks until the player process exits and cleans up the temp
// file. A killed process is a normal stop, not an error.
func (p *Player) Wait() error {
	err := p.cmd.Wait()
	os.Remove(p.file)
	if err != nil && strings.Contains(err.Error(), "killed") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("audio player exited: %w", err)
	}
	return nil
}
