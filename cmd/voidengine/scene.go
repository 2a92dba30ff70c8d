// cmd/voidengine/scene.go
package main

import (
	"fmt"

	"github.com/opd-ai/go-voidengine/pkg/asset"
	"github.com/opd-ai/go-voidengine/pkg/component"
	"github.com/opd-ai/go-voidengine/pkg/config"
	"github.com/opd-ai/go-voidengine/pkg/entity"
	"github.com/opd-ai/go-voidengine/pkg/event"
)

// playerID is the entity driven by keyboard input.
const playerID entity.ID = 1

const colliderSize = 8

var wallPositions = [][2]float64{
	{300, 200},
	{400, 350},
}

// buildDemoWorld creates the player at (100,100) and the walls. Every entity
// gets a sprite and an 8x8 collider; only the player gets a controller.
func buildDemoWorld(cfg *config.EngineConfig, decoder asset.Decoder, spritePath string, bus *event.Bus) (*entity.World, error) {
	world := entity.NewWorld()

	player, err := world.CreateEntity(playerID)
	if err != nil {
		return nil, err
	}
	player.SetPosition(100, 100)
	if err := attach(player,
		component.NewController(cfg.Simulation.ControllerSpeed),
		component.NewSprite(decoder, spritePath),
		component.NewCollider(colliderSize, colliderSize, world, bus),
	); err != nil {
		return nil, err
	}

	for _, pos := range wallPositions {
		wall := world.Spawn()
		wall.SetPosition(pos[0], pos[1])
		if err := attach(wall,
			component.NewSprite(decoder, spritePath),
			component.NewCollider(colliderSize, colliderSize, world, bus),
		); err != nil {
			return nil, err
		}
	}

	return world, nil
}

func attach(e *entity.Entity, components ...entity.Component) error {
	for _, c := range components {
		if err := e.AddComponent(c); err != nil {
			return fmt.Errorf("entity %d: %w", e.ID, err)
		}
	}
	return nil
}
