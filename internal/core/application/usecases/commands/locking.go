package commands

import (
	"context"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// lockOrderWithAgent acquires row locks for an order and its assigned agent in
// the agent-first order every two-aggregate handler uses, so concurrent
// handlers on the same pair cannot deadlock.
//
// The agent is only known after reading the order, so the order is first read
// without a lock. If a claim lands between that read and taking the order
// lock, the transaction is restarted with the now-visible agent; the agent
// reference is written at most once per order, so the retry settles
// immediately. Returns a nil agent when the order has none.
func lockOrderWithAgent(ctx context.Context, uow UoW, orderID kernel.UUID) (*order.Order, *agent.Agent, error) {
	for {
		snapshot, err := uow.OrderRepository().Get(ctx, orderID)
		if err != nil {
			return nil, nil, err
		}

		var courier *agent.Agent
		if agentID := snapshot.Agent(); agentID != nil {
			courier, err = uow.AgentRepository().GetForUpdate(ctx, *agentID)
			if err != nil {
				return nil, nil, err
			}
		}

		aggregate, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
		if err != nil {
			return nil, nil, err
		}

		if sameAgentRef(snapshot.Agent(), aggregate.Agent()) {
			return aggregate, courier, nil
		}

		if err = uow.Rollback(ctx); err != nil {
			return nil, nil, err
		}
		if err = uow.Begin(ctx); err != nil {
			return nil, nil, err
		}
	}
}

func sameAgentRef(a, b *kernel.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.IsEqual(*b)
}
