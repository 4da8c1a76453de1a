package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/auth"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/chat"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/httpx"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

// restAPI is the request/response operation surface. It lives in the gateway
// process because every operation ends with a lookup against the process-local
// connection registry.
type restAPI struct {
	messages *chat.MessageRouter
	groups   *chat.GroupFanout
	validate *validator.Validate
}

func newRestAPI(messages *chat.MessageRouter, groups *chat.GroupFanout) *restAPI {
	return &restAPI{
		messages: messages,
		groups:   groups,
		validate: validator.New(),
	}
}

func (api *restAPI) routes(mux *http.ServeMux, a *auth.Auth) {
	protect := func(h http.HandlerFunc) http.Handler {
		return httpx.CORS(a.Middleware(h))
	}

	mux.Handle("/messages", protect(api.directHistory))
	mux.Handle("/messages/send", protect(api.sendDirect))
	mux.Handle("/messages/edit", protect(api.editMessage))
	mux.Handle("/messages/like", protect(api.toggleLike))
	mux.Handle("/groups", protect(api.listGroups))
	mux.Handle("/groups/create", protect(api.createGroup))
	mux.Handle("/groups/update", protect(api.updateGroup))
	mux.Handle("/groups/delete", protect(api.deleteGroup))
	mux.Handle("/groups/leave", protect(api.leaveGroup))
	mux.Handle("/groups/messages", protect(api.groupHistory))
	mux.Handle("/groups/send", protect(api.sendGroup))
}

// decode unmarshals and validates a request body.
func (api *restAPI) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", chat.ErrValidation)
	}
	if err := api.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", chat.ErrValidation, err)
	}
	return nil
}

type sendDirectRequest struct {
	ReceiverID string        `json:"receiverId" validate:"required"`
	Content    model.Content `json:"content"`
}

func (api *restAPI) sendDirect(w http.ResponseWriter, r *http.Request) {
	var req sendDirectRequest
	if err := api.decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	msg, err := api.messages.SendDirect(r.Context(), auth.UserID(r.Context()), req.ReceiverID, req.Content)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, msg)
}

type editRequest struct {
	MessageID int64  `json:"messageId" validate:"required"`
	Text      string `json:"text" validate:"required"`
}

func (api *restAPI) editMessage(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := api.decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	msg, err := api.messages.Edit(r.Context(), req.MessageID, auth.UserID(r.Context()), req.Text)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, msg)
}

type likeRequest struct {
	MessageID int64 `json:"messageId" validate:"required"`
}

func (api *restAPI) toggleLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := api.decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	msg, err := api.messages.ToggleLike(r.Context(), req.MessageID, auth.UserID(r.Context()))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, msg)
}

func (api *restAPI) directHistory(w http.ResponseWriter, r *http.Request) {
	peer := r.URL.Query().Get("peer")
	if peer == "" {
		httpx.WriteError(w, fmt.Errorf("%w: peer query param is required", chat.ErrValidation))
		return
	}

	msgs, err := api.messages.DirectHistory(r.Context(), auth.UserID(r.Context()), peer)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, msgs)
}

type createGroupRequest struct {
	Name      string   `json:"name" validate:"required"`
	MemberIDs []string `json:"memberIds" validate:"required,min=1"`
	AvatarURL string   `json:"avatarUrl"`
}

func (api *restAPI) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := api.decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	group, err := api.groups.CreateGroup(r.Context(), req.Name, req.MemberIDs, auth.UserID(r.Context()), req.AvatarURL)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, group)
}

type updateGroupRequest struct {
	GroupID   string  `json:"groupId" validate:"required"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

func (api *restAPI) updateGroup(w http.ResponseWriter, r *http.Request) {
	var req updateGroupRequest
	if err := api.decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	group, err := api.groups.UpdateGroup(r.Context(), req.GroupID, auth.UserID(r.Context()), req.Name, req.AvatarURL)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, group)
}

type groupIDRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

func (api *restAPI) deleteGroup(w http.ResponseWriter, r *http.Request) {
	var req groupIDRequest
	if err := api.decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	if err := api.groups.DeleteGroup(r.Context(), req.GroupID, auth.UserID(r.Context())); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, map[string]string{"status": "deleted"})
}

func (api *restAPI) leaveGroup(w http.ResponseWriter, r *http.Request) {
	var req groupIDRequest
	if err := api.decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	if err := api.groups.LeaveGroup(r.Context(), req.GroupID, auth.UserID(r.Context())); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, map[string]string{"status": "left"})
}

func (api *restAPI) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := api.groups.GroupsFor(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if groups == nil {
		groups = []model.Group{}
	}
	httpx.WriteJSON(w, groups)
}

func (api *restAPI) groupHistory(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group")
	if groupID == "" {
		httpx.WriteError(w, fmt.Errorf("%w: group query param is required", chat.ErrValidation))
		return
	}

	msgs, err := api.groups.GroupHistory(r.Context(), groupID, auth.UserID(r.Context()))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, msgs)
}

type sendGroupRequest struct {
	GroupID string        `json:"groupId" validate:"required"`
	Content model.Content `json:"content"`
}

func (api *restAPI) sendGroup(w http.ResponseWriter, r *http.Request) {
	var req sendGroupRequest
	if err := api.decode(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	msg, err := api.groups.SendGroupMessage(r.Context(), req.GroupID, auth.UserID(r.Context()), req.Content)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, msg)
}
