package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/domain"
	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/persistence/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	registry := memory.NewWithSeed([]domain.Activity{
		{
			Name:            "Debate Club",
			Description:     "Develop public speaking and argumentation skills through competitive debate",
			Schedule:        "Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 16,
			Participants:    []string{"alex@mergington.edu"},
		},
		{
			Name:            "Science Club",
			Description:     "Explore scientific concepts through experiments and demonstrations",
			Schedule:        "Mondays, 3:30 PM - 4:30 PM",
			MaxParticipants: 25,
			Participants:    []string{"james@mergington.edu", "lucy@mergington.edu"},
		},
		{
			Name:            "Basketball Team",
			Description:     "Competitive basketball training and matches",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"marcus@mergington.edu"},
		},
	})

	service := domain.NewService(registry)
	handler := NewHandler(service)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func getActivities(t *testing.T, server *httptest.Server) map[string]ActivityView {
	t.Helper()

	resp, err := http.Get(server.URL + "/activities")
	if err != nil {
		t.Fatalf("get activities: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}

	var activities map[string]ActivityView
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		t.Fatalf("decode activities: %v", err)
	}
	return activities
}

func postAction(t *testing.T, server *httptest.Server, path string) (*http.Response, map[string]string) {
	t.Helper()

	resp, err := http.Post(server.URL+path, "application/json", nil)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp, body
}

func TestGetActivities(t *testing.T) {
	server := newTestServer(t)

	activities := getActivities(t, server)

	for _, name := range []string{"Debate Club", "Science Club", "Basketball Team"} {
		if _, ok := activities[name]; !ok {
			t.Fatalf("expected %q in response", name)
		}
	}
	if got := activities["Debate Club"].Description; got != "Develop public speaking and argumentation skills through competitive debate" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestGetActivitiesHasParticipants(t *testing.T) {
	server := newTestServer(t)

	activities := getActivities(t, server)

	participants := activities["Debate Club"].Participants
	if len(participants) != 1 || participants[0] != "alex@mergington.edu" {
		t.Fatalf("unexpected participants %v", participants)
	}
}

func TestSignupSuccess(t *testing.T) {
	server := newTestServer(t)

	resp, body := postAction(t, server, "/activities/Debate%20Club/signup?email=newemail@mergington.edu")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if !strings.Contains(body["message"], "Signed up") || !strings.Contains(body["message"], "newemail@mergington.edu") {
		t.Fatalf("unexpected message %q", body["message"])
	}

	activities := getActivities(t, server)
	if !contains(activities["Debate Club"].Participants, "newemail@mergington.edu") {
		t.Fatalf("participant not added: %v", activities["Debate Club"].Participants)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	server := newTestServer(t)

	resp, body := postAction(t, server, "/activities/Debate%20Club/signup?email=alex@mergington.edu")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.StatusCode)
	}
	if !strings.Contains(body["detail"], "already signed up") {
		t.Fatalf("unexpected detail %q", body["detail"])
	}
}

func TestSignupNonexistentActivity(t *testing.T) {
	server := newTestServer(t)

	resp, body := postAction(t, server, "/activities/Fake%20Activity/signup?email=test@mergington.edu")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.StatusCode)
	}
	if !strings.Contains(body["detail"], "Activity not found") {
		t.Fatalf("unexpected detail %q", body["detail"])
	}
}

func TestUnregisterSuccess(t *testing.T) {
	server := newTestServer(t)

	resp, body := postAction(t, server, "/activities/Debate%20Club/unregister?email=alex@mergington.edu")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if !strings.Contains(body["message"], "Unregistered") || !strings.Contains(body["message"], "alex@mergington.edu") {
		t.Fatalf("unexpected message %q", body["message"])
	}

	activities := getActivities(t, server)
	if contains(activities["Debate Club"].Participants, "alex@mergington.edu") {
		t.Fatalf("participant not removed: %v", activities["Debate Club"].Participants)
	}
}

func TestUnregisterNotSignedUp(t *testing.T) {
	server := newTestServer(t)

	resp, body := postAction(t, server, "/activities/Debate%20Club/unregister?email=notregistered@mergington.edu")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.StatusCode)
	}
	if !strings.Contains(body["detail"], "not signed up") {
		t.Fatalf("unexpected detail %q", body["detail"])
	}
}

func TestUnregisterNonexistentActivity(t *testing.T) {
	server := newTestServer(t)

	resp, body := postAction(t, server, "/activities/Fake%20Activity/unregister?email=test@mergington.edu")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.StatusCode)
	}
	if !strings.Contains(body["detail"], "Activity not found") {
		t.Fatalf("unexpected detail %q", body["detail"])
	}
}

func TestSignupMissingEmail(t *testing.T) {
	server := newTestServer(t)

	resp, body := postAction(t, server, "/activities/Debate%20Club/signup")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.StatusCode)
	}
	if !strings.Contains(body["detail"], "email") {
		t.Fatalf("unexpected detail %q", body["detail"])
	}
}

func TestRootRedirect(t *testing.T) {
	server := newTestServer(t)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("get root: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307 got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.Contains(loc, "/static/index.html") {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/activities/Debate%20Club/signup?email=x@mergington.edu")
	if err != nil {
		t.Fatalf("get signup: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", resp.StatusCode)
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
