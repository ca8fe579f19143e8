package reducers

import (
	"encoding/json"
	"time"
)

type debugWeatherArgs struct {
	Weather string `json:"weather"`
}

type debugTimeArgs struct {
	Phase string `json:"phase"`
}

type scheduledEntityArgs struct {
	ID uint64 `json:"id"`
}

type reapArgs struct {
	Kind string `json:"kind"`
	ID   uint64 `json:"id"`
}

// registerMaintenance exposes the scheduler-only sweeps and the debug
// controls. The world itself enforces that only the module identity may
// run the sweeps, so registering them on the shared wire surface leaks
// nothing: a player invoking one gets an authorization error.
func (r *Registry) registerMaintenance() {
	r.register("tick_world_state", func(identity string, _ json.RawMessage, now time.Time) (any, error) {
		return nil, wrap(r.state.TickWorld(identity, now))
	})

	sweeps := map[string]func(caller string, now time.Time) error{
		"process_torch_durability": r.state.ProcessTorchDurability,
		"process_food_spoilage":    r.state.ProcessFoodSpoilage,
		"check_plant_growth":       r.state.CheckPlantGrowth,
		"manage_seasonal_plants":   r.state.ManageSeasonalPlants,
		"cleanup_old_sound_events": r.state.CleanupOldSoundEvents,
		"update_viper_spittle":     r.state.UpdateViperSpittle,
	}
	for name, sweep := range sweeps {
		sweep := sweep
		r.register(name, func(identity string, _ json.RawMessage, now time.Time) (any, error) {
			return nil, wrap(sweep(identity, now))
		})
	}

	perEntity := map[string]func(caller string, id uint64, now time.Time) error{
		"process_campfire_logic_scheduled": r.state.ProcessCampfire,
		"process_furnace_logic_scheduled":  r.state.ProcessFurnace,
		"process_lantern_logic_scheduled":  r.state.ProcessLantern,
	}
	for name, process := range perEntity {
		process := process
		r.register(name, func(identity string, raw json.RawMessage, now time.Time) (any, error) {
			args, err := decode[scheduledEntityArgs](raw)
			if err != nil {
				return nil, badArgs(err)
			}
			return nil, wrap(process(identity, args.ID, now))
		})
	}

	r.register("reap_destroyed", func(identity string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[reapArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.ReapDestroyed(identity, args.Kind, args.ID))
	})

	r.register("debug_set_weather", func(_ string, raw json.RawMessage, now time.Time) (any, error) {
		args, err := decode[debugWeatherArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.DebugSetWeather(args.Weather, now))
	})

	r.register("debug_set_time", func(_ string, raw json.RawMessage, _ time.Time) (any, error) {
		args, err := decode[debugTimeArgs](raw)
		if err != nil {
			return nil, badArgs(err)
		}
		return nil, wrap(r.state.DebugSetTime(args.Phase))
	})

	r.register("get_weather", func(_ string, _ json.RawMessage, _ time.Time) (any, error) {
		return r.state.Weather(), nil
	})

	r.register("get_clock", func(_ string, _ json.RawMessage, _ time.Time) (any, error) {
		return r.state.Clock(), nil
	})
}
