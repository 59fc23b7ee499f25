package external

import (
	"bufio"
	"io"
	"log"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/othello/pkg/engine"
)

const startID = "250211104677393444"

func testSession(t *testing.T) *session {
	t.Helper()
	eng, err := engine.NewEngine(engine.DefaultEngineOptions())
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	return newSession(eng, 1)
}

func TestProcessCommands(t *testing.T) {
	sess := testSession(t)

	tests := []struct {
		cmd  string
		want string
	}{
		{"version", Version + "\n"},
		{"VERSION", Version + "\n"},
		{"new", "position " + startID + "\n"},
		{"legal " + startID, "d3 c4 f5 e6\n"},
		{"legal " + startID + " light", "e3 f4 c5 d6\n"},
		{"best " + startID, "e3\n"},
		{"best " + startID + " dark", "d3\n"},
		{"legal 0", "none\n"},
		{"best 0 dark", "pass\n"},
		{"frobnicate", "Error: unknown command 'frobnicate'\n"},
	}
	for _, tt := range tests {
		if got, _ := sess.process(tt.cmd); got != tt.want {
			t.Errorf("process(%q) = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestProcessPlay(t *testing.T) {
	sess := testSession(t)

	got, _ := sess.process("play " + startID + " d3")
	if !strings.HasPrefix(got, "position ") || !strings.HasSuffix(got, " engine c3\n") {
		t.Errorf("play d3 = %q, want engine reply c3", got)
	}

	// The reply position can be played on directly.
	next := strings.Fields(got)[1]
	if got, _ := sess.process("legal " + next); strings.HasPrefix(got, "Error") {
		t.Errorf("legal on reply position = %q", got)
	}

	got, _ = sess.process("play " + startID + " a1")
	if !strings.HasPrefix(got, "Error: illegal move") {
		t.Errorf("play a1 = %q, want illegal move error", got)
	}

	got, _ = sess.process("play " + startID + " zz")
	if !strings.HasPrefix(got, "Error:") {
		t.Errorf("play zz = %q, want error", got)
	}
}

func TestProcessPlayEndsGame(t *testing.T) {
	sess := testSession(t)
	board := "board:XO" + strings.Repeat(".", 62)

	got, _ := sess.process("play " + board + " c1")
	if !strings.HasSuffix(got, " engine pass result 3-0 dark\n") {
		t.Errorf("play c1 = %q, want engine pass and dark win", got)
	}
}

func TestProcessSet(t *testing.T) {
	sess := testSession(t)

	if got, _ := sess.process("set side light"); got != "side set to light\n" {
		t.Errorf("set side = %q", got)
	}
	got, _ := sess.process("new")
	if !strings.HasSuffix(got, " engine d3\n") {
		t.Errorf("new as light = %q, want engine opening d3", got)
	}

	if got, _ := sess.process("set mode random"); got != "mode set to random\n" {
		t.Errorf("set mode = %q", got)
	}
	if sess.engine.Strategy().Name() != "random" {
		t.Errorf("strategy = %q, want random", sess.engine.Strategy().Name())
	}
	if sess.engine.HumanSide() != engine.Light {
		t.Error("set mode reset the human side")
	}

	for _, cmd := range []string{"set mode minimax", "set side green", "set plies 2", "set mode"} {
		if got, _ := sess.process(cmd); !strings.HasPrefix(got, "Error:") {
			t.Errorf("process(%q) = %q, want error", cmd, got)
		}
	}
}

func TestProcessShow(t *testing.T) {
	sess := testSession(t)
	got, _ := sess.process("show " + startID)
	if !strings.HasPrefix(got, "  a b c d e f g h\n") {
		t.Errorf("show header missing:\n%s", got)
	}
	if !strings.HasSuffix(got, "dark 2 light 2 empty 60\n") {
		t.Errorf("show counts missing:\n%s", got)
	}

	if got, _ := sess.process("show"); !strings.HasPrefix(got, "Error:") {
		t.Errorf("show without position = %q", got)
	}
}

func TestProcessExit(t *testing.T) {
	sess := testSession(t)
	if got, quit := sess.process("quit"); !quit || got != "Goodbye\n" {
		t.Errorf("quit = %q, %v", got, quit)
	}
}

func TestBoardString(t *testing.T) {
	start := engine.StartingPosition()
	s := FormatBoardString(start, engine.Light)
	want := "board:" + strings.Repeat(".", 27) + "OX......XO" + strings.Repeat(".", 27) + ":light"
	if s != want {
		t.Errorf("FormatBoardString = %q, want %q", s, want)
	}

	b, side, err := ParseBoardString(s)
	if err != nil {
		t.Fatalf("ParseBoardString error: %v", err)
	}
	if b != start || side != engine.Light {
		t.Errorf("round trip gave side %v and board\n%s", side, b)
	}

	b, side, err = ParseBoardString(strings.Repeat("-", 64))
	if err != nil || side != engine.Dark || b != (engine.Board{}) {
		t.Errorf("empty board: %v %v %v", b, side, err)
	}
}

func TestParseBoardStringErrors(t *testing.T) {
	for _, s := range []string{
		"board:XO",
		"board:" + strings.Repeat("Z", 64),
		"board:" + strings.Repeat(".", 64) + ":purple",
		"board:" + strings.Repeat(".", 64) + ":dark:extra",
	} {
		if _, _, err := ParseBoardString(s); err == nil {
			t.Errorf("ParseBoardString(%q) succeeded", s)
		}
	}
}

func startTestServer(t *testing.T, prompt bool) *Server {
	t.Helper()
	eng, _ := engine.NewEngine(engine.DefaultEngineOptions())
	srv := NewServer(eng, ServerOptions{
		Host:          "127.0.0.1",
		Port:          0,
		PromptEnabled: prompt,
		Logger:        log.New(io.Discard, "", 0),
	})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })
	return srv
}

func TestServerSession(t *testing.T) {
	srv := startTestServer(t, false)

	conn, err := net.DialTimeout("tcp", srv.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(conn)

	send := func(cmd string) string {
		t.Helper()
		if _, err := conn.Write([]byte(cmd + "\n")); err != nil {
			t.Fatalf("write %q: %v", cmd, err)
		}
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read after %q: %v", cmd, err)
		}
		return line
	}

	if got := send("version"); got != Version+"\n" {
		t.Errorf("version = %q", got)
	}
	if got := send("best " + startID); got != "e3\n" {
		t.Errorf("best = %q, want e3", got)
	}
	if got := send("exit"); got != "Goodbye\n" {
		t.Errorf("exit = %q", got)
	}
	if _, err := r.ReadString('\n'); err != io.EOF {
		t.Errorf("read after exit: %v, want EOF", err)
	}
}

func TestServerPrompt(t *testing.T) {
	srv := startTestServer(t, true)

	conn, err := net.DialTimeout("tcp", srv.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(conn)

	buf := make([]byte, 2)
	if _, err := io.ReadFull(r, buf); err != nil || string(buf) != "> " {
		t.Fatalf("initial prompt = %q, %v", buf, err)
	}
	conn.Write([]byte("legal " + startID + "\n"))
	line, _ := r.ReadString('\n')
	if line != "d3 c4 f5 e6\n" {
		t.Errorf("legal = %q", line)
	}
	if _, err := io.ReadFull(r, buf); err != nil || string(buf) != "> " {
		t.Errorf("prompt after response = %q, %v", buf, err)
	}
}

func TestServerStopWithIdleClient(t *testing.T) {
	srv := startTestServer(t, false)

	conn, err := net.DialTimeout("tcp", srv.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	// A round trip guarantees the session is registered before Stop.
	conn.Write([]byte("version\n"))
	r := bufio.NewReader(conn)
	if line, err := r.ReadString('\n'); err != nil || line != Version+"\n" {
		t.Fatalf("version = %q, %v", line, err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Stop() }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Stop error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked with an idle client connected")
	}

	if _, err := r.ReadString('\n'); err == nil {
		t.Error("connection still open after Stop")
	}
}

func TestServerStartTwice(t *testing.T) {
	srv := startTestServer(t, false)
	if err := srv.Start(); err == nil {
		t.Error("second Start succeeded")
	}
	if err := srv.Stop(); err != nil {
		t.Errorf("Stop error: %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Errorf("second Stop error: %v", err)
	}
}
