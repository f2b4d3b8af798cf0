package synth

import (
	"headliner/internal/event"
	"headliner/internal/gamestate"
	"headliner/internal/templates"
)

var (
	goodAligned = &event.AlignmentRange{MinLawChaos: -100, MaxLawChaos: 100, MinGoodEvil: 25, MaxGoodEvil: 100}
	evilAligned = &event.AlignmentRange{MinLawChaos: -100, MaxLawChaos: 100, MinGoodEvil: -100, MaxGoodEvil: -25}
)

// optionSpec is a response option before it is bound to an event. blocFactor
// scales the template's voter-bloc ranges into per-bloc deltas.
type optionSpec struct {
	id          string
	label       string
	description string
	probability float64
	effects     event.OptionEffects
	shift       event.AlignmentShift
	requires    *event.AlignmentRange
	risky       bool
	chaosOnly   bool
	blocFactor  float64
	success     string
	failure     string
}

var crisisOptions = []optionSpec{
	{
		id: "address_immediately", label: "Address Immediately",
		description: "Hold a press conference and take charge of the response.",
		probability: 0.65,
		effects:     event.OptionEffects{Trust: 3, Capital: -2, Media: 4},
		shift:       event.AlignmentShift{LawChaos: 5, GoodEvil: 5},
		blocFactor:  0.5,
		success:     "Your swift response reassures the public.",
		failure:     "Your hasty statement raises more questions than it answers.",
	},
	{
		id: "delegate", label: "Delegate to Staff",
		description: "Let your team handle the details while you stay above the fray.",
		probability: 0.75,
		effects:     event.OptionEffects{Trust: 1, Capital: -1, Media: 1},
		shift:       event.AlignmentShift{LawChaos: 5},
		blocFactor:  0.2,
		success:     "Your staff handles the situation competently.",
		failure:     "Your staff fumbles and the press notices your absence.",
	},
	{
		id: "divert_attention", label: "Divert Attention",
		description: "Change the subject with an announcement of your own.",
		probability: 0.45,
		effects:     event.OptionEffects{Trust: -2, Media: 2},
		shift:       event.AlignmentShift{LawChaos: -5, GoodEvil: -5},
		risky:       true,
		success:     "The news cycle moves on to your announcement.",
		failure:     "Reporters call out the obvious distraction.",
	},
	{
		id: "ignore", label: "Ignore",
		description: "Say nothing and wait for the story to pass.",
		probability: 0.9,
		effects:     event.OptionEffects{Trust: -4, Capital: 1, Media: -3},
		blocFactor:  -0.5,
		success:     "The crisis runs its course without you.",
		failure:     "Your silence becomes the story.",
	},
	{
		id: "full_transparency", label: "Full Transparency",
		description: "Release everything you know and answer every question.",
		probability: 0.7,
		effects:     event.OptionEffects{Trust: 6, Capital: -3, PartyLoyalty: -2},
		shift:       event.AlignmentShift{LawChaos: 5, GoodEvil: 10},
		requires:    goodAligned,
		blocFactor:  0.8,
		success:     "Your candour earns rare praise from across the aisle.",
		failure:     "Your openness hands critics fresh ammunition.",
	},
	{
		id: "deflect_blame", label: "Deflect Blame",
		description: "Point the finger at your opponents.",
		probability: 0.55,
		effects:     event.OptionEffects{Trust: -1, Capital: 3, PartyLoyalty: 2},
		shift:       event.AlignmentShift{GoodEvil: -10},
		requires:    evilAligned,
		risky:       true,
		success:     "The blame lands squarely on your rivals.",
		failure:     "The attempt to shift blame backfires publicly.",
	},
	{
		id: "dramatic_stunt", label: "Stage a Dramatic Stunt",
		description: "Do something nobody expects and dare the cameras to look away.",
		probability: 0.3,
		effects:     event.OptionEffects{Trust: 8, Capital: -5, Media: 10},
		shift:       event.AlignmentShift{LawChaos: -20},
		risky:       true,
		chaosOnly:   true,
		success:     "The stunt goes viral and you own the story.",
		failure:     "The stunt becomes a national punchline.",
	},
}

var policyOptions = []optionSpec{
	{
		id: "support", label: "Support",
		description: "Publicly back the measure.",
		probability: 0.8,
		effects:     event.OptionEffects{Trust: 2, Capital: 1, PartyLoyalty: 1},
		shift:       event.AlignmentShift{LawChaos: 3},
		blocFactor:  0.6,
		success:     "Supporters rally behind your stance.",
		failure:     "Your support draws a fierce backlash.",
	},
	{
		id: "oppose", label: "Oppose",
		description: "Come out firmly against it.",
		probability: 0.8,
		effects:     event.OptionEffects{Trust: 1, Capital: 2, PartyLoyalty: -1},
		shift:       event.AlignmentShift{LawChaos: -3},
		blocFactor:  -0.6,
		success:     "Critics of the measure embrace you as their champion.",
		failure:     "Your opposition is painted as obstruction.",
	},
	{
		id: "hedge", label: "Hedge",
		description: "Express concerns on both sides and promise further study.",
		probability: 0.7,
		effects:     event.OptionEffects{Trust: -1, Capital: 1},
		success:     "You avoid alienating anyone.",
		failure:     "Both sides accuse you of fence-sitting.",
	},
	{
		id: "no_comment", label: "No Comment",
		description: "Decline to take a position.",
		probability: 0.9,
		effects:     event.OptionEffects{Trust: -2, Media: -1},
		success:     "The question fades without your input.",
		failure:     "Your silence is read as weakness.",
	},
	{
		id: "outrageous_counterproposal", label: "Propose Something Outrageous",
		description: "Float a counterproposal so bold it dominates the debate.",
		probability: 0.35,
		effects:     event.OptionEffects{Trust: -3, Capital: 4, Media: 8},
		shift:       event.AlignmentShift{LawChaos: -15},
		risky:       true,
		chaosOnly:   true,
		blocFactor:  1.0,
		success:     "Your wild idea reframes the entire debate.",
		failure:     "Pundits question whether you are serious about governing.",
	},
}

var opportunityOptions = []optionSpec{
	{
		id: "seize", label: "Seize",
		description: "Move fast and claim the moment.",
		probability: 0.7,
		effects:     event.OptionEffects{Trust: 3, Capital: 3, Media: 3},
		blocFactor:  0.8,
		success:     "You capitalise on the moment brilliantly.",
		failure:     "You overreach and the moment slips away.",
	},
	{
		id: "cautious_approach", label: "Cautious Approach",
		description: "Take measured steps and limit your exposure.",
		probability: 0.85,
		effects:     event.OptionEffects{Trust: 1, Capital: 1, Media: 1},
		blocFactor:  0.3,
		success:     "Your careful approach pays modest dividends.",
		failure:     "Others grab the credit while you hesitate.",
	},
	{
		id: "pass", label: "Pass",
		description: "Let this one go.",
		probability: 1.0,
		success:     "You conserve your resources for another day.",
		failure:     "You conserve your resources for another day.",
	},
	{
		id: "go_all_in", label: "Go All In",
		description: "Bet your political capital on this single opportunity.",
		probability: 0.4,
		effects:     event.OptionEffects{Trust: 6, Capital: -4, Funds: -3, Media: 7},
		shift:       event.AlignmentShift{LawChaos: -10},
		risky:       true,
		chaosOnly:   true,
		blocFactor:  1.5,
		success:     "The gamble pays off spectacularly.",
		failure:     "The gamble leaves you exposed and out of pocket.",
	},
}

var scandalOptions = []optionSpec{
	{
		id: "deny", label: "Deny",
		description: "Flatly deny any wrongdoing.",
		probability: 0.5,
		effects:     event.OptionEffects{Trust: -1, PartyLoyalty: 1},
		shift:       event.AlignmentShift{GoodEvil: -5},
		risky:       true,
		success:     "Your denial holds and the story loses steam.",
		failure:     "New evidence contradicts your denial.",
	},
	{
		id: "apologize", label: "Apologize",
		description: "Own the mistake and ask for forgiveness.",
		probability: 0.7,
		effects:     event.OptionEffects{Trust: 2, Capital: -3, Media: 2},
		shift:       event.AlignmentShift{GoodEvil: 8},
		blocFactor:  0.4,
		success:     "Voters appreciate your honesty.",
		failure:     "The apology is seen as an admission of something worse.",
	},
	{
		id: "counter_attack", label: "Counter-Attack",
		description: "Question the motives of your accusers.",
		probability: 0.45,
		effects:     event.OptionEffects{Trust: -2, Capital: 2, Media: 4, PartyLoyalty: 2},
		shift:       event.AlignmentShift{LawChaos: -5, GoodEvil: -5},
		risky:       true,
		success:     "Your accusers end up on the defensive.",
		failure:     "The attack makes you look guilty.",
	},
	{
		id: "distract", label: "Distract",
		description: "Flood the zone with other news.",
		probability: 0.5,
		effects:     event.OptionEffects{Trust: -1, Media: 2},
		shift:       event.AlignmentShift{LawChaos: -5},
		success:     "The press chases your new story instead.",
		failure:     "The distraction only draws more attention to the scandal.",
	},
	{
		id: "sacrifice_subordinate", label: "Sacrifice Subordinate",
		description: "Let a staffer take the fall.",
		probability: 0.6,
		effects:     event.OptionEffects{Trust: 1, PartyLoyalty: -3},
		shift:       event.AlignmentShift{GoodEvil: -12},
		risky:       true,
		success:     "The scandal leaves with your former staffer.",
		failure:     "Your former staffer starts talking to reporters.",
	},
	{
		id: "embrace_scandal", label: "Embrace the Scandal",
		description: "Lean in and turn the scandal into a brand.",
		probability: 0.25,
		effects:     event.OptionEffects{Trust: -5, Capital: 5, Media: 12},
		shift:       event.AlignmentShift{LawChaos: -25},
		risky:       true,
		chaosOnly:   true,
		success:     "Somehow the scandal makes you more popular.",
		failure:     "The scandal swallows your career whole.",
	},
}

var informationalOptions = []optionSpec{
	{
		id: "acknowledge", label: "Acknowledge",
		description: "Note the story and move on.",
		probability: 1.0,
		effects:     event.OptionEffects{Media: 1},
		success:     "You stay informed.",
		failure:     "You stay informed.",
	},
	{
		id: "ignore", label: "Ignore",
		description: "Pay it no attention.",
		probability: 1.0,
		success:     "Nothing comes of it.",
		failure:     "Nothing comes of it.",
	},
}

func optionSpecs(kind event.Kind) []optionSpec {
	switch kind {
	case event.KindCrisis:
		return crisisOptions
	case event.KindPolicyPressure:
		return policyOptions
	case event.KindOpportunity:
		return opportunityOptions
	case event.KindScandalTrigger:
		return scandalOptions
	default:
		return informationalOptions
	}
}

// responseOptions binds the option table for kind to a template and player.
// Chaos-only options are dropped entirely unless chaos mode is on.
func responseOptions(kind event.Kind, tmpl *templates.Template, alignment gamestate.Alignment, chaos bool) []event.ResponseOption {
	specs := optionSpecs(kind)
	options := make([]event.ResponseOption, 0, len(specs))
	for _, spec := range specs {
		if spec.chaosOnly && !chaos {
			continue
		}
		effects := spec.effects
		effects.VoterBlocs = blocDeltas(tmpl, spec.blocFactor)
		option := event.ResponseOption{
			ID:                 spec.id,
			Label:              spec.label,
			Description:        spec.description,
			SuccessProbability: spec.probability,
			Effects:            effects,
			AlignmentShift:     spec.shift,
			Available:          true,
			Risky:              spec.risky,
			ChaosModeOnly:      spec.chaosOnly,
			SuccessText:        spec.success,
			FailureText:        spec.failure,
		}
		if spec.requires != nil {
			required := *spec.requires
			option.RequiredAlignment = &required
			option.Available = required.Contains(alignment.LawChaos, alignment.GoodEvil)
		}
		options = append(options, option)
	}
	return options
}

func blocDeltas(tmpl *templates.Template, factor float64) map[string]float64 {
	if tmpl == nil || factor == 0 || len(tmpl.Effects.VoterBlocs) == 0 {
		return nil
	}
	deltas := make(map[string]float64, len(tmpl.Effects.VoterBlocs))
	for bloc, r := range tmpl.Effects.VoterBlocs {
		deltas[bloc] = roundTo(factor*(r.Max-r.Min)/2, 2)
	}
	return deltas
}
