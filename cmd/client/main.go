package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fasthttp/websocket"
	"github.com/go-resty/resty/v2"
	"github.com/saeid-a/FitSyncBack/internal/models"
	"github.com/saeid-a/FitSyncBack/internal/session"
)

type apiClient struct {
	http  *resty.Client
	token string
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type weekResponse struct {
	Week models.WeekProgram `json:"week"`
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{http: resty.New().SetBaseURL(baseURL)}
}

func (a *apiClient) login(email, password string) (*models.User, error) {
	var out authResponse
	resp, err := a.http.R().
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/api/auth/login")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("login failed: %s", resp.Status())
	}
	a.token = out.Token
	return &out.User, nil
}

func (a *apiClient) setRole(email, role string) error {
	var out struct {
		Token string `json:"token"`
	}
	resp, err := a.http.R().
		SetAuthToken(a.token).
		SetBody(map[string]string{"email": email, "role": role}).
		SetResult(&out).
		Post("/api/v1/roles/set")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("set role failed: %s", resp.Status())
	}
	a.token = out.Token
	return nil
}

func (a *apiClient) getWeek(clientID string, weekOffset int) (*models.WeekProgram, error) {
	var out weekResponse
	resp, err := a.http.R().
		SetAuthToken(a.token).
		SetQueryParam("week", fmt.Sprintf("%d", weekOffset)).
		SetResult(&out).
		Get("/api/v1/programs/" + clientID)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch week failed: %s", resp.Status())
	}
	return &out.Week, nil
}

// restFetcher adapts the REST API to the session reducer's re-fetch
// contract.
type restFetcher struct {
	api    *apiClient
	userID string
}

func (f *restFetcher) FetchDay(day string) ([]models.Block, error) {
	week, err := f.api.getWeek(f.userID, 0)
	if err != nil {
		return nil, err
	}
	return week.Days[day], nil
}

func (f *restFetcher) FetchWeek(weekOffset int) (*models.WeekProgram, error) {
	return f.api.getWeek(f.userID, weekOffset)
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "backend base URL")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	api := newAPIClient(*serverURL)
	user, err := api.login(*email, *password)
	if err != nil {
		log.Fatalf("Failed to log in: %v", err)
	}

	stdin := bufio.NewScanner(os.Stdin)
	sess := session.New(&restFetcher{api: api, userID: user.ID})
	sess.Authenticate(user.ID, user.Role)

	if sess.State() == session.StateRoleUnselected {
		fmt.Print("Select your role (client/coach): ")
		if !stdin.Scan() {
			return
		}
		role := strings.TrimSpace(stdin.Text())
		if err := api.setRole(*email, role); err != nil {
			log.Fatalf("Failed to set role: %v", err)
		}
		if err := sess.SelectRole(role); err != nil {
			log.Fatalf("Failed to select role: %v", err)
		}
	}

	conn, err := dialSocket(*serverURL, api.token)
	if err != nil {
		log.Fatalf("Failed to open sync socket: %v", err)
	}
	defer conn.Close()

	// Single reader applies every incoming frame to the local session.
	go func() {
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				log.Printf("sync socket closed: %v", err)
				return
			}
			if err := sess.Apply(payload); err != nil {
				log.Printf("dropping frame: %v", err)
				continue
			}
			for _, notice := range sess.Notices() {
				fmt.Printf("\n[notice] %s\n> ", notice)
			}
			if messages := sess.Messages(); len(messages) > 0 {
				last := messages[len(messages)-1]
				if last.SenderID != user.ID {
					fmt.Printf("\n[%s] %s\n> ", last.SenderID, last.Content)
				}
			}
		}
	}()

	fmt.Printf("Logged in as %s (%s). Commands: /day <Day>, /msg <userID> <text>, /quit\n", user.Email, sess.Role())
	fmt.Print("> ")
	for stdin.Scan() {
		line := strings.TrimSpace(stdin.Text())
		switch {
		case line == "/quit":
			return
		case strings.HasPrefix(line, "/day "):
			printDay(sess, strings.TrimSpace(strings.TrimPrefix(line, "/day ")))
		case strings.HasPrefix(line, "/msg "):
			parts := strings.SplitN(strings.TrimPrefix(line, "/msg "), " ", 2)
			if len(parts) != 2 {
				fmt.Println("usage: /msg <userID> <text>")
				break
			}
			frame := models.MessageFrame{
				Type:      models.FrameTypeMessage,
				UserID:    user.ID,
				Recipient: parts[0],
				Content:   parts[1],
			}
			if err := conn.WriteJSON(frame); err != nil {
				log.Printf("send failed: %v", err)
				break
			}
			sess.RecordSent(parts[0], parts[1])
		case line != "":
			fmt.Println("unknown command")
		}
		fmt.Print("> ")
	}
}

func dialSocket(serverURL, token string) (*websocket.Conn, error) {
	wsURL := strings.Replace(serverURL, "http", "ws", 1) + "/api/v1/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	return conn, err
}

func printDay(sess *session.ClientSession, day string) {
	if err := sess.StartWorkout(day); err != nil {
		fmt.Printf("cannot open %s: %v\n", day, err)
		return
	}
	defer sess.Back()

	blocks := sess.Week().Days[day]
	if len(blocks) == 0 {
		fmt.Printf("%s: rest day\n", day)
		return
	}
	for i, block := range blocks {
		fmt.Printf("%d. %s (x%d rounds)\n", i+1, block.Name, block.Rounds)
		for _, exercise := range block.Exercises {
			reps := fmt.Sprintf("%d", exercise.Reps.Count)
			if exercise.Reps.AMRAP {
				reps = "AMRAP"
			}
			fmt.Printf("   - %s: %s reps x %d sets @ %.0f\n", exercise.Name, reps, exercise.Sets, exercise.Weight)
		}
	}
}
