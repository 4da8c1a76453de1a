package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

func TestCreateGroup_DeduplicatesAndIncludesCreator(t *testing.T) {
	req := require.New(t)
	f := newFixture()

	group, err := f.groups.CreateGroup(context.Background(), "team", []string{"bob", "bob", "carol"}, "alice", "https://cdn/avatar.png")
	req.NoError(err)
	req.ElementsMatch([]string{"alice", "bob", "carol"}, group.Members)
	req.Equal("alice", group.Admin)
	req.True(group.HasMember(group.Admin))
	req.NotEmpty(group.ID)
}

func TestCreateGroup_Validation(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	_, err := f.groups.CreateGroup(ctx, "", []string{"bob"}, "alice", "")
	req.ErrorIs(err, ErrValidation)

	// Creator alone is not a group.
	_, err = f.groups.CreateGroup(ctx, "solo", nil, "alice", "")
	req.ErrorIs(err, ErrValidation)

	// Creator listed among the members still counts once.
	_, err = f.groups.CreateGroup(ctx, "echo", []string{"alice"}, "alice", "")
	req.ErrorIs(err, ErrValidation)
}

func TestUpdateGroup_AnyMemberMayEditMetadata(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	group, err := f.groups.CreateGroup(ctx, "team", []string{"bob"}, "alice", "")
	req.NoError(err)

	name := "renamed"
	updated, err := f.groups.UpdateGroup(ctx, group.ID, "bob", &name, nil)
	req.NoError(err)
	req.Equal("renamed", updated.Name)

	_, err = f.groups.UpdateGroup(ctx, group.ID, "mallory", &name, nil)
	req.ErrorIs(err, ErrUnauthorized)

	empty := ""
	_, err = f.groups.UpdateGroup(ctx, group.ID, "alice", &empty, nil)
	req.ErrorIs(err, ErrValidation)
}

func TestDeleteGroup_AdminOnly(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	group, err := f.groups.CreateGroup(ctx, "team", []string{"bob"}, "alice", "")
	req.NoError(err)

	req.ErrorIs(f.groups.DeleteGroup(ctx, group.ID, "bob"), ErrUnauthorized)
	req.NoError(f.groups.DeleteGroup(ctx, group.ID, "alice"))

	_, err = f.groups.GroupHistory(ctx, group.ID, "alice")
	req.ErrorIs(err, ErrNotFound)
}

func TestLeaveGroup_RemovesMemberAndIgnoresStrangers(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	group, err := f.groups.CreateGroup(ctx, "team", []string{"bob", "carol"}, "alice", "")
	req.NoError(err)

	req.NoError(f.groups.LeaveGroup(ctx, group.ID, "carol"))
	req.NoError(f.groups.LeaveGroup(ctx, group.ID, "carol")) // already gone: no-op

	groups, err := f.groups.GroupsFor(ctx, "carol")
	req.NoError(err)
	req.Empty(groups)

	groups, err = f.groups.GroupsFor(ctx, "bob")
	req.NoError(err)
	req.Len(groups, 1)
}

func TestSendGroupMessage_FansOutToTopicSubscribers(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	group, err := f.groups.CreateGroup(ctx, "team", []string{"bob", "carol"}, "alice", "")
	req.NoError(err)

	a, b, c := newFakeHandle(), newFakeHandle(), newFakeHandle()
	f.topics.Join(group.ID, a)
	f.topics.Join(group.ID, b)
	f.topics.Join(group.ID, c)

	msg, err := f.groups.SendGroupMessage(ctx, group.ID, "alice", model.Content{ImageURL: "https://cdn/x.png"})
	req.NoError(err)

	for _, h := range []*fakeHandle{a, b, c} {
		pushed := h.byName(model.EventGroupMessage)
		req.Len(pushed, 1)
		payload, ok := pushed[0].Data.(model.GroupMessagePayload)
		req.True(ok)
		req.Equal(group.ID, payload.GroupID)
		req.Equal("https://cdn/x.png", payload.Message.Content.ImageURL)
	}

	// The same message also appears via history.
	history, err := f.groups.GroupHistory(ctx, group.ID, "bob")
	req.NoError(err)
	req.Len(history, 1)
	req.Equal(msg.ID, history[0].ID)
}

func TestSendGroupMessage_RemovedMemberGetsNoPush(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	group, err := f.groups.CreateGroup(ctx, "team", []string{"bob", "carol"}, "alice", "")
	req.NoError(err)

	carol := newFakeHandle()
	f.topics.Join(group.ID, carol)

	// Carol leaves the group and her client drops the topic subscription.
	req.NoError(f.groups.LeaveGroup(ctx, group.ID, "carol"))
	f.topics.Leave(group.ID, carol)

	_, err = f.groups.SendGroupMessage(ctx, group.ID, "alice", model.Content{Text: "bye carol"})
	req.NoError(err)
	req.Empty(carol.byName(model.EventGroupMessage))
}

func TestGroupHistory_MemberOnly(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	group, err := f.groups.CreateGroup(ctx, "team", []string{"bob", "carol"}, "alice", "")
	req.NoError(err)

	req.NoError(f.groups.LeaveGroup(ctx, group.ID, "carol"))

	_, err = f.groups.SendGroupMessage(ctx, group.ID, "alice", model.Content{Text: "bye carol"})
	req.NoError(err)

	// A message sent after carol left is not visible to her, live or via
	// history. Remaining members still read it.
	_, err = f.groups.GroupHistory(ctx, group.ID, "carol")
	req.ErrorIs(err, ErrUnauthorized)

	_, err = f.groups.GroupHistory(ctx, group.ID, "mallory")
	req.ErrorIs(err, ErrUnauthorized)

	history, err := f.groups.GroupHistory(ctx, group.ID, "bob")
	req.NoError(err)
	req.Len(history, 1)
}

func TestSendGroupMessage_Errors(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	_, err := f.groups.SendGroupMessage(ctx, "no-such-group", "alice", model.Content{Text: "hi"})
	req.ErrorIs(err, ErrNotFound)

	group, err := f.groups.CreateGroup(ctx, "team", []string{"bob"}, "alice", "")
	req.NoError(err)

	_, err = f.groups.SendGroupMessage(ctx, group.ID, "mallory", model.Content{Text: "hi"})
	req.ErrorIs(err, ErrUnauthorized)

	_, err = f.groups.SendGroupMessage(ctx, group.ID, "alice", model.Content{})
	req.ErrorIs(err, ErrValidation)
}

func TestGroupFanout_SubscriptionIsViewDrivenNotMembershipDriven(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	ctx := context.Background()

	group, err := f.groups.CreateGroup(ctx, "team", []string{"bob"}, "alice", "")
	req.NoError(err)

	// Bob is a member and online, but does not have the group open.
	bob := newFakeHandle()
	f.reg.Register("bob", bob)

	_, err = f.groups.SendGroupMessage(ctx, group.ID, "alice", model.Content{Text: "hi"})
	req.NoError(err)
	req.Empty(bob.byName(model.EventGroupMessage))
}
