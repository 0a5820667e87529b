package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/samdwyer/battlearena/internal/anim"
	"github.com/samdwyer/battlearena/internal/dice"
	"github.com/samdwyer/battlearena/internal/gamedata"
)

const (
	// StunChance is the percent chance that Critical Strike stuns.
	StunChance = 30
	// OrcDefenseBreak is how much defense Crushing Blow removes.
	OrcDefenseBreak = 2
	// KillExperiencePerLevel is the experience granted per victim level.
	KillExperiencePerLevel = 10
)

// Resolver calculates and applies combat actions.
type Resolver struct {
	roller     *dice.Roller
	durations  anim.Durations
	archetypes *gamedata.ArchetypeRegistry
	logger     *zap.Logger
}

// NewResolver creates a resolver. archetypes supplies special ability names
// and may be nil; logger may be nil.
func NewResolver(roller *dice.Roller, durations anim.Durations, archetypes *gamedata.ArchetypeRegistry, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		roller:     roller,
		durations:  durations,
		archetypes: archetypes,
		logger:     logger,
	}
}

// BasicAttack strikes target once with jittered damage.
func (r *Resolver) BasicAttack(actor, target Combatant) Outcome {
	if !actor.IsAlive() {
		return Rejected(ActionAttack, actor.GetName(), RejectActorDead,
			actor.GetName()+" is dead and cannot attack!")
	}
	if !target.IsAlive() {
		return Rejected(ActionAttack, actor.GetName(), RejectTargetDead,
			target.GetName()+" is already dead!")
	}

	r.animateStrike(actor, target)

	damage := max(1, actor.GetAttack()-target.GetDefense()/2)
	damage += r.roller.Range("attack_jitter", -2, 2)
	damage = max(1, damage)

	out := Outcome{
		Kind:    ActionAttack,
		Actor:   actor.GetName(),
		Target:  target.GetName(),
		Success: true,
		Damage:  damage,
		Hits:    1,
	}
	target.TakeDamage(damage)
	r.settleKill(&out, actor, target, true)

	if out.Killed {
		out.Message = fmt.Sprintf("%s attacked %s for %d damage and killed them!", out.Actor, out.Target, damage)
	} else {
		out.Message = fmt.Sprintf("%s attacked %s for %d damage!", out.Actor, out.Target, damage)
	}
	r.log(out)
	return out
}

// SpecialAbility dispatches to the actor's archetype ability.
func (r *Resolver) SpecialAbility(actor, target Combatant) Outcome {
	if !actor.IsAlive() || !target.IsAlive() {
		reason := RejectTargetDead
		if !actor.IsAlive() {
			reason = RejectActorDead
		}
		msg := actor.GetName() + " cannot use special ability now!"
		if actor.GetArchetype() == gamedata.ArchetypeHero {
			msg = "Cannot use special ability now!"
		}
		return Rejected(ActionSpecial, actor.GetName(), reason, msg)
	}

	var ability func(actor, target Combatant) Outcome
	switch actor.GetArchetype() {
	case gamedata.ArchetypeHero:
		ability = r.criticalStrike
	case gamedata.ArchetypeGoblin:
		ability = r.frenzy
	case gamedata.ArchetypeOrc:
		ability = r.crushingBlow
	case gamedata.ArchetypeElf:
		ability = r.naturesBlessing
	default:
		return Rejected(ActionSpecial, actor.GetName(), RejectNoAbility,
			actor.GetName()+" has no special ability!")
	}

	r.animateStrike(actor, target)
	out := ability(actor, target)
	r.log(out)
	return out
}

// Heal restores up to amount health to actor.
func (r *Resolver) Heal(actor Combatant, amount int) Outcome {
	if !actor.IsAlive() {
		return Rejected(ActionHeal, actor.GetName(), RejectActorDead,
			actor.GetName()+" is dead and cannot be healed!")
	}

	actor.StartAnimation(anim.KindHeal, r.durations.For(anim.KindHeal))
	healed := actor.Heal(amount)

	out := Outcome{
		Kind:    ActionHeal,
		Actor:   actor.GetName(),
		Target:  actor.GetName(),
		Success: true,
		Healing: healed,
		Message: fmt.Sprintf("%s was healed for %d health points!", actor.GetName(), healed),
	}
	r.log(out)
	return out
}

// UsePotion drinks one potion, healing half of the bearer's maximum health.
// A potion is never spent when it could not heal.
func (r *Resolver) UsePotion(hero PotionBearer) Outcome {
	if !hero.IsAlive() {
		return Rejected(ActionPotion, hero.GetName(), RejectActorDead,
			"You cannot use potions while dead!")
	}
	if hero.GetPotions() <= 0 {
		return Rejected(ActionPotion, hero.GetName(), RejectNoPotions,
			"You have no potions left!")
	}
	if hero.GetHP() >= hero.GetMaxHP() {
		return Rejected(ActionPotion, hero.GetName(), RejectFullHealth,
			"You are already at full health!")
	}

	hero.ConsumePotion()
	out := r.Heal(hero, hero.GetMaxHP()/2)
	out.Kind = ActionPotion
	out.Message = fmt.Sprintf("You used a potion! %s Potions left: %d", out.Message, hero.GetPotions())
	return out
}

// CalculateBasicDamage returns basic attack damage before jitter (for previews).
func CalculateBasicDamage(attack, defense int) int {
	return max(1, attack-defense/2)
}

// CalculateCriticalStrike returns Critical Strike damage.
func CalculateCriticalStrike(attack, defense int) int {
	return max(1, attack*2-defense/3)
}

// CalculateFrenzyHit returns the damage of a single Frenzy strike.
func CalculateFrenzyHit(attack, defense int) int {
	return max(1, attack/2-defense/4)
}

// CalculateCrushingBlow returns Crushing Blow damage, truncating the
// fractional 1.5x multiplier toward zero.
func CalculateCrushingBlow(attack, defense int) int {
	return max(1, (attack*3-2*(defense/4))/2)
}

// CalculateNaturesBlessing returns Nature's Blessing damage.
func CalculateNaturesBlessing(attack, defense int) int {
	return max(1, attack-defense/3)
}

func (r *Resolver) criticalStrike(actor, target Combatant) Outcome {
	damage := CalculateCriticalStrike(actor.GetAttack(), target.GetDefense())
	out := r.specialOutcome(actor, target)
	out.Damage = damage
	out.Hits = 1
	target.TakeDamage(damage)

	out.Message = fmt.Sprintf("You use CRITICAL STRIKE on %s for %d damage!", out.Target, damage)
	// The stun roll is always drawn; a dead target cannot be stunned.
	if r.roller.Chance("stun", StunChance) && target.IsAlive() {
		target.SetStunned(true)
		out.Stunned = true
		out.Message += fmt.Sprintf(" %s is stunned and will miss their next turn!", out.Target)
	}

	r.settleKill(&out, actor, target, true)
	if out.Killed {
		out.Message += fmt.Sprintf(" You defeated %s!", out.Target)
	}
	return out
}

func (r *Resolver) frenzy(actor, target Combatant) Outcome {
	hits := r.roller.Range("frenzy_hits", 2, 4)
	out := r.specialOutcome(actor, target)
	out.Hits = hits
	for i := 0; i < hits; i++ {
		damage := CalculateFrenzyHit(actor.GetAttack(), target.GetDefense())
		target.TakeDamage(damage)
		out.Damage += damage
	}

	out.Message = fmt.Sprintf("%s goes into a FRENZY and strikes %d times for %d total damage!",
		out.Actor, hits, out.Damage)
	r.settleKill(&out, actor, target, false)
	if out.Killed {
		out.Message += fmt.Sprintf(" %s defeated %s!", out.Actor, out.Target)
	}
	return out
}

func (r *Resolver) crushingBlow(actor, target Combatant) Outcome {
	damage := CalculateCrushingBlow(actor.GetAttack(), target.GetDefense())
	out := r.specialOutcome(actor, target)
	out.Damage = damage
	out.Hits = 1
	target.TakeDamage(damage)
	out.DefenseReduced = target.ReduceDefense(OrcDefenseBreak)

	out.Message = fmt.Sprintf("%s uses CRUSHING BLOW on %s for %d damage and reduces defense by %d!",
		out.Actor, out.Target, damage, out.DefenseReduced)
	r.settleKill(&out, actor, target, false)
	if out.Killed {
		out.Message += fmt.Sprintf(" %s defeated %s!", out.Actor, out.Target)
	}
	return out
}

func (r *Resolver) naturesBlessing(actor, target Combatant) Outcome {
	damage := CalculateNaturesBlessing(actor.GetAttack(), target.GetDefense())
	out := r.specialOutcome(actor, target)
	out.Damage = damage
	out.Hits = 1
	target.TakeDamage(damage)
	out.Healing = actor.Heal(damage / 2)

	out.Message = fmt.Sprintf("%s uses NATURE'S BLESSING on %s for %d damage and heals for %d!",
		out.Actor, out.Target, damage, out.Healing)
	r.settleKill(&out, actor, target, false)
	if out.Killed {
		out.Message += fmt.Sprintf(" %s defeated %s!", out.Actor, out.Target)
	}
	return out
}

func (r *Resolver) specialOutcome(actor, target Combatant) Outcome {
	out := Outcome{
		Kind:    ActionSpecial,
		Actor:   actor.GetName(),
		Target:  target.GetName(),
		Success: true,
	}
	if r.archetypes != nil {
		if def := r.archetypes.GetByID(actor.GetArchetype()); def != nil {
			out.Ability = def.Special
		}
	}
	return out
}

// animateStrike makes the actor lunge and the target flinch.
func (r *Resolver) animateStrike(actor, target Combatant) {
	actor.StartAnimation(anim.KindAttack, r.durations.For(anim.KindAttack))
	target.StartAnimation(anim.KindHit, r.durations.For(anim.KindHit))
}

// settleKill records a kill and, when rewarded, grants the actor experience.
func (r *Resolver) settleKill(out *Outcome, actor, target Combatant, rewarded bool) {
	if target.IsAlive() {
		return
	}
	out.Killed = true
	target.SetStunned(false)
	if rewarded {
		out.Experience = target.GetLevel() * KillExperiencePerLevel
		out.LeveledUp = actor.GainExperience(out.Experience)
	}
}

func (r *Resolver) log(out Outcome) {
	r.logger.Debug("combat action resolved",
		zap.String("kind", string(out.Kind)),
		zap.String("actor", out.Actor),
		zap.String("target", out.Target),
		zap.Int("damage", out.Damage),
		zap.Int("healing", out.Healing),
		zap.Bool("stunned", out.Stunned),
		zap.Bool("killed", out.Killed),
	)
}
