package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"
)

// freePort asks the kernel for an unused TCP port.
func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func startServer(t *testing.T) (string, func()) {
	tmpDir, err := os.MkdirTemp("", "pulsetrack-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	port := freePort(t)
	cmd := exec.Command(binaryPath, "-data", tmpDir)
	cmd.Env = append(os.Environ(), fmt.Sprintf("PULSETRACK_SERVER_PORT=%d", port))

	if err := cmd.Start(); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to start server: %v", err)
	}

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)

	// Wait for the health endpoint to come up
	ready := false
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/api/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == 200 {
				ready = true
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	cleanup := func() {
		cmd.Process.Kill()
		cmd.Wait()
		os.RemoveAll(tmpDir)
	}

	if !ready {
		cleanup()
		t.Fatal("Server never became healthy")
	}

	return baseURL, cleanup
}

func TestServerStartsAndShutsdown(t *testing.T) {
	_, cleanup := startServer(t)
	cleanup()
}

func TestReadingRoundTripOverHTTP(t *testing.T) {
	baseURL, cleanup := startServer(t)
	defer cleanup()

	// Login
	loginBody, _ := json.Marshal(map[string]string{"user_id": "user_1"})
	resp, err := http.Post(baseURL+"/api/auth/login", "application/json", bytes.NewReader(loginBody))
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("Login returned %d", resp.StatusCode)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	if loginResp.Token == "" {
		t.Fatal("Login returned empty token")
	}

	// Record a reading
	readingBody, _ := json.Marshal(map[string]string{"bpm": "72"})
	req, _ := http.NewRequest("POST", baseURL+"/api/readings", bytes.NewReader(readingBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)

	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Add reading request failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != 200 {
		t.Fatalf("Add reading returned %d", resp2.StatusCode)
	}

	// The reading should show up on the dashboard
	req, _ = http.NewRequest("GET", baseURL+"/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)

	resp3, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Dashboard request failed: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != 200 {
		t.Fatalf("Dashboard returned %d", resp3.StatusCode)
	}

	var dashResp struct {
		LatestBPM int `json:"latest_bpm"`
	}
	if err := json.NewDecoder(resp3.Body).Decode(&dashResp); err != nil {
		t.Fatalf("Failed to decode dashboard response: %v", err)
	}
	if dashResp.LatestBPM != 72 {
		t.Errorf("Expected latest_bpm 72, got %d", dashResp.LatestBPM)
	}
}

func TestDashboardRequiresAuth(t *testing.T) {
	baseURL, cleanup := startServer(t)
	defer cleanup()

	resp, err := http.Get(baseURL + "/api/dashboard")
	if err != nil {
		t.Fatalf("Dashboard request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 401 {
		t.Errorf("Expected 401 without token, got %d", resp.StatusCode)
	}
}
