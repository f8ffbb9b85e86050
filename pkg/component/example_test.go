package component_test

import (
	"context"
	"fmt"

	"lpc/pkg/component"
	"lpc/pkg/mailbox"
)

// mailboxComponent 把邮箱工厂交给 Manager 管理
type mailboxComponent struct {
	name    string
	factory *mailbox.Factory
}

func (c *mailboxComponent) Name() string {
	return c.name
}

func (c *mailboxComponent) Start(ctx context.Context) error {
	f, err := mailbox.NewFactoryWithThreads(2, 0)
	if err != nil {
		return err
	}
	c.factory = f
	fmt.Printf("Starting component: %s\n", c.name)
	return nil
}

func (c *mailboxComponent) Stop(ctx context.Context) error {
	fmt.Printf("Stopping component: %s\n", c.name)
	return c.factory.Close()
}

func ExampleManager() {
	manager := component.New()

	_ = manager.Register(&mailboxComponent{name: "players"})
	_ = manager.Register(&mailboxComponent{name: "rooms"})

	ctx := context.Background()
	if err := manager.Start(ctx); err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		return
	}

	if err := manager.Stop(ctx); err != nil {
		fmt.Printf("Failed to stop: %v\n", err)
	}

	// Output:
	// Starting component: players
	// Starting component: rooms
	// Stopping component: rooms
	// Stopping component: players
}
