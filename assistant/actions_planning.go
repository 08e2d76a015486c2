package assistant

import (
	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/finance"
)

type createGoalArgs struct {
	Name         string  `json:"name" description:"What the user is saving for"`
	TargetAmount float64 `json:"target_amount" description:"Target amount in minor units"`
	SavedAmount  float64 `json:"saved_amount,omitempty" description:"Amount already saved"`
	Currency     string  `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewCreateGoalAction records a savings goal.
func NewCreateGoalAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"create_goal",
		"Create a savings goal for the user.",
		createGoalArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			target, err := requireInt("create_goal", args, "target_amount")
			if err != nil {
				return nil, err
			}
			id, err := store.InsertGoal(finance.Goal{
				Name:         argString(args, "name", ""),
				TargetAmount: target,
				SavedAmount:  argInt(args, "saved_amount", 0),
				Currency:     currencyOr(actx, args),
			})
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"goal_id": id}), nil
		},
	)
}

type updateGoalProgressArgs struct {
	GoalID      float64 `json:"goal_id" description:"Identifier of the goal"`
	SavedAmount float64 `json:"saved_amount" description:"New saved amount in minor units"`
}

// NewUpdateGoalProgressAction updates saved progress toward a goal.
func NewUpdateGoalProgressAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"update_goal_progress",
		"Update the amount saved toward a goal.",
		updateGoalProgressArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			id, err := requireInt("update_goal_progress", args, "goal_id")
			if err != nil {
				return nil, err
			}
			saved, err := requireInt("update_goal_progress", args, "saved_amount")
			if err != nil {
				return nil, err
			}
			if err := store.UpdateGoalProgress(id, saved); err != nil {
				return nil, err
			}
			return success(map[string]any{"goal_id": id, "saved_amount": saved}), nil
		},
	)
}

type listGoalsArgs struct{}

// NewListGoalsAction reports all goals, active first.
func NewListGoalsAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"list_goals",
		"List the user's savings goals.",
		listGoalsArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			goals, err := store.ListGoals()
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"goals": goals, "count": len(goals)}), nil
		},
	)
}

type addWishlistItemArgs struct {
	Name          string  `json:"name" description:"What the user wishes to buy"`
	EstimatedCost float64 `json:"estimated_cost" description:"Estimated cost in minor units"`
	Priority      float64 `json:"priority,omitempty" description:"1 (high) to 3 (low); defaults to 2"`
	Currency      string  `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewAddWishlistItemAction records a desired purchase.
func NewAddWishlistItemAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"add_wishlist_item",
		"Add an item to the user's wishlist.",
		addWishlistItemArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			cost, err := requireInt("add_wishlist_item", args, "estimated_cost")
			if err != nil {
				return nil, err
			}
			id, err := store.AppendWishlistItem(finance.WishlistItem{
				Name:          argString(args, "name", ""),
				EstimatedCost: cost,
				Currency:      currencyOr(actx, args),
				Priority:      int(argInt(args, "priority", 0)),
			})
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"wishlist_item_id": id}), nil
		},
	)
}

type updateWishlistStatusArgs struct {
	ItemID float64 `json:"item_id" description:"Identifier of the wishlist item"`
	Status string  `json:"status" description:"One of: wished, purchased, dropped"`
}

// NewUpdateWishlistStatusAction transitions a wishlist item.
func NewUpdateWishlistStatusAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"update_wishlist_status",
		"Mark a wishlist item as purchased or dropped.",
		updateWishlistStatusArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			id, err := requireInt("update_wishlist_status", args, "item_id")
			if err != nil {
				return nil, err
			}
			status := argString(args, "status", "")
			if err := store.UpdateWishlistStatus(id, status); err != nil {
				return nil, err
			}
			return success(map[string]any{"item_id": id, "new_status": status}), nil
		},
	)
}

type listWishlistArgs struct{}

// NewListWishlistAction reports wishlist items, highest priority first.
func NewListWishlistAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"list_wishlist",
		"List the user's wishlist items.",
		listWishlistArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			items, err := store.ListWishlist()
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"wishlist": items, "count": len(items)}), nil
		},
	)
}
