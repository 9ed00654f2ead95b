package session

import "subshare-bot/internal/domain/subshare"

// Flow identifies one conversation variant.
type Flow int

const (
	FlowNone Flow = iota
	FlowAddPerson
	FlowRemovePerson
	FlowAddAccount
	FlowRemoveAccount
	FlowAddSubscription
	FlowRemoveSubscription
	FlowSetPrice
	FlowRemovePrice
)

var flowNames = map[Flow]string{
	FlowAddPerson:          "add_person",
	FlowRemovePerson:       "remove_person",
	FlowAddAccount:         "add_account",
	FlowRemoveAccount:      "remove_account",
	FlowAddSubscription:    "add_subscription",
	FlowRemoveSubscription: "remove_subscription",
	FlowSetPrice:           "set_price",
	FlowRemovePrice:        "remove_price",
}

func (f Flow) String() string {
	if name, ok := flowNames[f]; ok {
		return name
	}
	return "none"
}

func ParseFlow(s string) (Flow, bool) {
	for flow, name := range flowNames {
		if name == s {
			return flow, true
		}
	}
	return FlowNone, false
}

// Step names what input the session expects next. Every flow has its own
// explicit states; none are derived or shared.
type Step int

const (
	StepIdle Step = iota

	StepAddPersonName

	StepRemovePersonChoose

	StepAddAccountID
	StepAddAccountService

	StepRemoveAccountChoose

	StepSubPerson
	StepSubService
	StepSubAccount
	StepSubSlot
	StepSubDuration

	StepRemoveSubPerson
	StepRemoveSubChoose

	StepPriceService
	StepPriceEmoji
	StepPriceDays
	StepPriceAmount

	StepRemovePriceService
	StepRemovePriceDuration
)

// Callback payload actions, one per selectable state.
const (
	ActionRemovePerson    = "rm_person"
	ActionAccountService  = "acct_service"
	ActionRemoveAccount   = "rm_account"
	ActionSubPerson       = "sub_person"
	ActionSubService      = "sub_service"
	ActionSubAccount      = "sub_account"
	ActionSubSlot         = "sub_slot"
	ActionSubDuration     = "sub_days"
	ActionRemoveSubPerson = "rmsub_person"
	ActionRemoveSubChoose = "rmsub_id"
	ActionRemovePriceSvc  = "rmprice_service"
	ActionRemovePriceDays = "rmprice_days"
	ActionStartFlow       = "flow"
	ActionCancel          = "cancel"
)

// accumulator is the flow-scoped input record, a tagged union switched on by
// the current step. Cleared on completion, cancellation or restart.
type accumulator interface {
	flow() Flow
}

type addAccountAcc struct {
	id string
}

func (addAccountAcc) flow() Flow { return FlowAddAccount }

type addSubAcc struct {
	person  string
	service string
	account string
	slot    subshare.SlotKey
}

func (addSubAcc) flow() Flow { return FlowAddSubscription }

type removeSubAcc struct {
	person string
}

func (removeSubAcc) flow() Flow { return FlowRemoveSubscription }

type setPriceAcc struct {
	service string
	emoji   string
	days    int
}

func (setPriceAcc) flow() Flow { return FlowSetPrice }

type removePriceAcc struct {
	service string
}

func (removePriceAcc) flow() Flow { return FlowRemovePrice }

// Session is the conversation context of one chat.
type Session struct {
	ChatID int64

	flow Flow
	step Step
	acc  accumulator
}

func (s *Session) Idle() bool {
	return s.step == StepIdle
}

func (s *Session) reset() {
	s.flow = FlowNone
	s.step = StepIdle
	s.acc = nil
}
