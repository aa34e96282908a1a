package bot

// SmartTuning holds the knobs of SmartBot.
type SmartTuning struct {
	// RevealWhenPartnerWinning lets the bot reveal even when its partner holds the trick.
	RevealWhenPartnerWinning bool
	// LeadMasters makes the bot lead cards no unseen card can beat.
	LeadMasters bool
	// AvoidVoidLeads steers leads away from suits an opponent is known to be void in once trump is out.
	AvoidVoidLeads bool
	// TrumpLeadMinimum is the number of trump cards the bot wants before leading trump.
	TrumpLeadMinimum int
}

// DefaultTuning is the configuration used by hard bots.
var DefaultTuning = SmartTuning{
	RevealWhenPartnerWinning: false,
	LeadMasters:              true,
	AvoidVoidLeads:           true,
	TrumpLeadMinimum:         3,
}
