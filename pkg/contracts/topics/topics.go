package topics

const (
	// Resultados de lutas (feed externo, entrega at-least-once)
	FightResults = "fight_results"

	// Picks
	PickPlaced  = "pick_placed"
	PickSettled = "pick_settled"

	// DLQs
	FightResultsDLQ = "fight_results_dlq"
)
