package inject

import (
	"context"
	"testing"

	"go.viam.com/test"

	"github.com/mtg-robotics/lazytraffic/agent"
	"github.com/mtg-robotics/lazytraffic/neighbors"
)

func TestCommandPublisherRecordsCallsByDefault(t *testing.T) {
	pub := &CommandPublisher{}
	err := pub.PublishCommand(context.Background(), neighbors.AgentID("r1"), agent.Command{Linear: 0.3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(pub.Commands), test.ShouldEqual, 1)
	test.That(t, pub.Commands[0].ID, test.ShouldEqual, neighbors.AgentID("r1"))
}

func TestCommandPublisherCustomFuncOverridesDefault(t *testing.T) {
	called := false
	pub := &CommandPublisher{
		PublishCommandFunc: func(ctx context.Context, id neighbors.AgentID, cmd agent.Command) error {
			called = true
			return nil
		},
	}
	_ = pub.PublishCommand(context.Background(), neighbors.AgentID("r1"), agent.Command{})
	test.That(t, called, test.ShouldBeTrue)
}

func TestFleetChangeNotifierDeliversSends(t *testing.T) {
	n := NewFleetChangeNotifier()
	ch := n.Subscribe(context.Background())
	n.Ch <- struct{}{}
	select {
	case <-ch:
	default:
		t.Fatal("expected a pending fleet-change notification")
	}
}
