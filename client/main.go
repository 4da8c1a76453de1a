// Command client is an interactive terminal chat client. It authenticates
// against the api service, holds one websocket to the gateway, and reconciles
// history, optimistic sends, and pushed events through pkg/clientsync.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/clientsync"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

type session struct {
	userID      string
	token       string
	gatewayAddr string
	ws          *websocket.Conn
	debounce    *clientsync.TypingDebouncer
	out         io.Writer

	// mu guards the active conversation state below, which the stdin loop,
	// the websocket read loop, and the typing debounce timer all touch. It
	// also serializes websocket writes.
	mu          sync.Mutex
	store       *clientsync.Store
	activePeer  string
	activeGroup string
}

func (s *session) request(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.gatewayAddr+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func login(apiAddr, userID string) (string, error) {
	reqBody, _ := json.Marshal(map[string]string{"userId": userID})
	resp, err := http.Post(apiAddr+"/login", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("login failed: %s", string(body))
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return "", err
	}
	return loginResp.Token, nil
}

// emit sends one client->server event over the websocket. Callers hold mu.
func (s *session) emit(name model.EventName, data any) {
	payload, err := json.Marshal(model.Event{Name: name, Data: data})
	if err != nil {
		return
	}
	if err := s.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Println("write:", err)
	}
}

// openDirect switches the active conversation to a direct peer: prior state
// is discarded, history is fetched, and pushes are filtered to the new pair.
// On a failed history fetch the current conversation stays open.
func (s *session) openDirect(peerID string) error {
	var history []model.Message
	if err := s.request("GET", "/messages?peer="+url.QueryEscape(peerID), nil, &history); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeGroup != "" {
		s.emit(model.EventLeaveGroup, model.TopicPayload{GroupID: s.activeGroup})
	}
	s.activePeer, s.activeGroup = peerID, ""
	s.store = clientsync.NewStore(clientsync.Conversation{SelfID: s.userID, PeerID: peerID})
	s.store.LoadHistory(history)
	s.render()
	return nil
}

// openGroup switches to a group: history fetch plus a view-driven topic join.
func (s *session) openGroup(groupID string) error {
	var history []model.Message
	if err := s.request("GET", "/groups/messages?group="+url.QueryEscape(groupID), nil, &history); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeGroup != "" && s.activeGroup != groupID {
		s.emit(model.EventLeaveGroup, model.TopicPayload{GroupID: s.activeGroup})
	}
	s.activePeer, s.activeGroup = "", groupID
	s.store = clientsync.NewStore(clientsync.Conversation{SelfID: s.userID, GroupID: groupID})
	s.store.LoadHistory(history)
	s.emit(model.EventJoinGroup, model.TopicPayload{GroupID: groupID})
	s.render()
	return nil
}

// applyFrame merges one pushed event into the active conversation.
func (s *session) applyFrame(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.store.ApplyRaw(frame); err != nil {
		return
	}
	s.render()
}

func (s *session) send(text string) {
	s.debounce.Keystroke(text)
	defer s.debounce.Stop()

	s.mu.Lock()
	peer, group := s.activePeer, s.activeGroup
	s.mu.Unlock()

	content := model.Content{Text: text}
	var msg model.Message
	var err error
	switch {
	case peer != "":
		err = s.request("POST", "/messages/send",
			map[string]any{"receiverId": peer, "content": content}, &msg)
	case group != "":
		err = s.request("POST", "/groups/send",
			map[string]any{"groupId": group, "content": content}, &msg)
	default:
		fmt.Println("no conversation open: /dm <user> or /group <id>")
		return
	}
	if err != nil {
		fmt.Println("send failed:", err)
		return
	}

	// Optimistic append. The push echo of the same id is a no-op merge.
	s.mu.Lock()
	s.store.Insert(msg)
	s.render()
	s.mu.Unlock()
}

// render redraws the active conversation. Callers hold mu.
func (s *session) render() {
	fmt.Fprint(s.out, "\033[2J\033[H")
	for _, msg := range s.store.Messages() {
		line := fmt.Sprintf("[%d] %s: %s", msg.ID, msg.SenderID, msg.Content.Text)
		if msg.Content.ImageURL != "" {
			line += " <image " + msg.Content.ImageURL + ">"
		}
		if msg.Content.AudioURL != "" {
			line += " <audio " + msg.Content.AudioURL + ">"
		}
		if msg.Edited {
			line += " (edited)"
		}
		if len(msg.Likes) > 0 {
			line += fmt.Sprintf(" ♥%d", len(msg.Likes))
		}
		fmt.Fprintln(s.out, line)
	}
	if s.activePeer != "" && s.store.PeerTyping(s.activePeer) {
		fmt.Fprintf(s.out, "%s is typing...\n", s.activePeer)
	}
	fmt.Fprint(s.out, "> ")
}

func (s *session) handleCommand(line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/dm":
		if len(fields) != 2 {
			fmt.Println("usage: /dm <user>")
			return
		}
		if err := s.openDirect(fields[1]); err != nil {
			fmt.Println("open failed:", err)
		}
	case "/group":
		if len(fields) != 2 {
			fmt.Println("usage: /group <id>")
			return
		}
		if err := s.openGroup(fields[1]); err != nil {
			fmt.Println("open failed:", err)
		}
	case "/groups":
		var groups []model.Group
		if err := s.request("GET", "/groups", nil, &groups); err != nil {
			fmt.Println("list failed:", err)
			return
		}
		for _, g := range groups {
			fmt.Printf("%s  %s (%d members)\n", g.ID, g.Name, len(g.Members))
		}
		fmt.Print("> ")
	case "/edit":
		if len(fields) < 3 {
			fmt.Println("usage: /edit <id> <text>")
			return
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			fmt.Println("bad message id")
			return
		}
		var msg model.Message
		err = s.request("POST", "/messages/edit",
			map[string]any{"messageId": id, "text": strings.Join(fields[2:], " ")}, &msg)
		if err != nil {
			fmt.Println("edit failed:", err)
			return
		}
		s.mu.Lock()
		s.store.Mutate(msg)
		s.render()
		s.mu.Unlock()
	case "/like":
		if len(fields) != 2 {
			fmt.Println("usage: /like <id>")
			return
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			fmt.Println("bad message id")
			return
		}
		var msg model.Message
		if err := s.request("POST", "/messages/like", map[string]any{"messageId": id}, &msg); err != nil {
			fmt.Println("like failed:", err)
			return
		}
		s.mu.Lock()
		s.store.Mutate(msg)
		s.render()
		s.mu.Unlock()
	default:
		fmt.Println("commands: /dm /group /groups /edit /like /quit")
	}
}

func main() {
	gatewayAddr := flag.String("gateway", "localhost:8080", "gateway service address")
	apiAddr := flag.String("api", "http://localhost:8081", "api service address")
	userID := flag.String("user", "user1", "user id")
	peer := flag.String("dm", "", "open a direct conversation on start")
	flag.Parse()

	token, err := login(*apiAddr, *userID)
	if err != nil {
		log.Fatal("login failed: ", err)
	}

	u := url.URL{Scheme: "ws", Host: *gatewayAddr, Path: "/ws"}
	header := http.Header{}
	header.Add("Authorization", "Bearer "+token)

	ws, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		log.Fatal("dial: ", err)
	}
	defer ws.Close()

	s := &session{
		userID:      *userID,
		token:       token,
		gatewayAddr: "http://" + *gatewayAddr,
		ws:          ws,
		out:         os.Stdout,
		store:       clientsync.NewStore(clientsync.Conversation{SelfID: *userID}),
	}
	s.debounce = clientsync.NewTypingDebouncer(clientsync.DefaultQuietPeriod,
		func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.activePeer != "" {
				s.emit(model.EventTyping, model.TypingPayload{ToUserID: s.activePeer})
			}
		},
		func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.activePeer != "" {
				s.emit(model.EventStopTyping, model.TypingPayload{ToUserID: s.activePeer})
			}
		})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, frame, err := ws.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}
			s.applyFrame(frame)
		}
	}()

	if *peer != "" {
		if err := s.openDirect(*peer); err != nil {
			log.Fatal(err)
		}
	} else {
		fmt.Print("> ")
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch {
			case line == "":
				fmt.Print("> ")
			case line == "/quit":
				close(interrupt)
				return
			case strings.HasPrefix(line, "/"):
				s.handleCommand(line)
			default:
				s.send(line)
			}
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		// Close handshake, then wait briefly for the server side.
		s.mu.Lock()
		err := ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.mu.Unlock()
		if err != nil {
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	}
}
