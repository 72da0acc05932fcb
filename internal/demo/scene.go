// Package demo composes the interactive skeletal animation demo: one player-controlled
// character plus a crowd of independently animated copies sharing its rig.
package demo

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-skeletal/engine/animation"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/game_object"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/loader"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/model"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/renderer/skinning"
	"github.com/Carmen-Shannon/oxy-skeletal/engine/skeleton"
	"github.com/Carmen-Shannon/oxy-skeletal/internal/config"
	"github.com/Carmen-Shannon/oxy-skeletal/internal/rigs"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrMissingClip is returned when the configured walk clip is not in the rig.
var ErrMissingClip = errors.New("demo: clip not found")

// builtinRig is the loader cache key of the procedural arm.
const builtinRig = "builtin:arm"

// crowdSpacing is the distance between crowd members along X.
const crowdSpacing = 3

// Scene owns everything the demo ticks and renders.
type Scene struct {
	cfg    config.Config
	logger *slog.Logger

	rig    *model.Rig
	skel   skeleton.Skeleton
	clips  map[string]*animation.Clip
	root   game_object.GameObject
	player Character

	crowd      []animator.SkeletalAnimator
	crowdGroup animator.Group

	palette skinning.Palette
	queue   skinning.QueueWriter
	world   []mgl32.Mat4
}

// NewScene loads the configured rig and builds the character and its crowd.
//
// Parameters:
//   - cfg: resolved demo settings
//   - queue: destination for bone palette uploads, or nil to count bytes only
//   - logger: the logger for every component
//
// Returns:
//   - *Scene: the scene
//   - error: error if the rig cannot be loaded or its clips are missing
func NewScene(cfg config.Config, queue skinning.QueueWriter, logger *slog.Logger) (*Scene, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if queue == nil {
		queue = &CountingQueue{}
	}

	s := &Scene{cfg: cfg, logger: logger, queue: queue}

	rig, err := loadRig(cfg, logger)
	if err != nil {
		return nil, err
	}
	s.rig = rig

	s.skel, err = skeleton.FromRig(rig, skeleton.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build skeleton for %s: %w", rig.Name, err)
	}
	s.clips, err = animation.LoadClips(rig, s.skel, animation.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load clips for %s: %w", rig.Name, err)
	}

	walk, ok := s.clips[cfg.Animation.Walk]
	if !ok {
		return nil, fmt.Errorf("%w: walk clip %q in %s", ErrMissingClip, cfg.Animation.Walk, rig.Name)
	}
	idle, ok := s.clips[cfg.Animation.Idle]
	if !ok {
		logger.Warn("idle clip not found, standing pose is the walk clip's first frame", "clip", cfg.Animation.Idle)
	}

	s.root = game_object.NewGameObject(game_object.WithName("world"))
	playerObject := game_object.NewGameObject(game_object.WithID(1), game_object.WithName("player"))
	s.root.AddChild(playerObject)

	s.player, err = NewCharacter(playerObject, walk, idle, cfg.Animation, logger)
	if err != nil {
		return nil, err
	}

	s.crowdGroup = animator.NewGroup(animator.WithWorkers(cfg.Workers))
	for i := 1; i < cfg.Instances; i++ {
		// stagger start times so the crowd does not move in lockstep
		start := walk.Duration() * float32(i) / float32(cfg.Instances)
		anim, err := animator.NewSkeletalAnimator(walk,
			animator.WithStartTime(start),
			animator.WithSpeed(cfg.Animation.Speed),
			animator.WithLogger(logger))
		if err != nil {
			s.crowdGroup.Close()
			return nil, err
		}
		s.crowd = append(s.crowd, anim)
		s.crowdGroup.Add(anim)
		s.root.AddChild(game_object.NewGameObject(
			game_object.WithID(uint64(i+1)),
			game_object.WithName(fmt.Sprintf("crowd_%d", i)),
			game_object.WithPosition(float32(i)*crowdSpacing, 0, 0),
			game_object.WithAnimator(anim),
		))
	}

	s.palette = skinning.NewPalette(nil,
		skinning.WithMaxBones(max(skinning.DefaultMaxBones, s.skel.BoneCount())),
		skinning.WithLogger(logger))

	logger.Info("scene ready",
		"rig", rig.Name,
		"nodes", len(s.skel.Nodes()),
		"bones", s.skel.BoneCount(),
		"clips", len(s.clips),
		"instances", cfg.Instances)
	return s, nil
}

func loadRig(cfg config.Config, logger *slog.Logger) (*model.Rig, error) {
	l := loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithSkin(cfg.Skin),
		loader.WithLogger(logger),
		loader.WithRig(builtinRig, rigs.Arm()))
	if cfg.Model == "" {
		return l.Get(builtinRig), nil
	}
	return l.Load(cfg.Model)
}

// Player returns the player character.
func (s *Scene) Player() Character {
	return s.player
}

// Skeleton returns the skeleton shared by every instance.
func (s *Scene) Skeleton() skeleton.Skeleton {
	return s.skel
}

// Crowd returns the crowd animators.
func (s *Scene) Crowd() []animator.SkeletalAnimator {
	return s.crowd
}

// Root returns the scene graph root.
func (s *Scene) Root() game_object.GameObject {
	return s.root
}

// WorldMatrices returns the world transforms computed by the last Render, in scene-graph pre-order.
func (s *Scene) WorldMatrices() []mgl32.Mat4 {
	return s.world
}

// KeyDown forwards key presses to the player.
func (s *Scene) KeyDown(keyCode uint32) {
	s.player.KeyDown(keyCode)
}

// KeyUp forwards key releases to the player.
func (s *Scene) KeyUp(keyCode uint32) {
	s.player.KeyUp(keyCode)
}

// Tick advances the player and the crowd. It is the engine's tick callback.
func (s *Scene) Tick(deltaTime float32) {
	s.player.Tick(deltaTime)
	s.crowdGroup.Update(deltaTime)
}

// Render walks the scene graph and uploads every instance's bone palette. It is the engine's
// render callback; failures are logged so a lost device does not stop the loop.
func (s *Scene) Render(float32) {
	s.world = s.world[:0]
	s.root.Walk(mgl32.Ident4(), func(_ game_object.GameObject, world mgl32.Mat4) {
		s.world = append(s.world, world)
	})

	if err := s.palette.Stage(0, s.player.FinalBoneMatrices()); err != nil {
		s.logger.Error("failed to stage player palette", "error", err)
	}
	for i, anim := range s.crowd {
		if err := s.palette.Stage(i+1, anim.FinalBoneMatrices()); err != nil {
			s.logger.Error("failed to stage crowd palette", "instance", i+1, "error", err)
		}
	}
	if err := s.palette.Flush(s.queue); err != nil {
		s.logger.Error("bone palette upload failed", "error", err)
	}
}

// Close releases the crowd's worker pool. The scene must not be ticked afterwards.
func (s *Scene) Close() {
	s.crowdGroup.Close()
}

// CountingQueue is a skinning.QueueWriter that discards data and counts bytes, for headless runs.
type CountingQueue struct {
	Writes int
	Bytes  uint64
}

var _ skinning.QueueWriter = &CountingQueue{}

// WriteBuffer records the write size.
func (q *CountingQueue) WriteBuffer(_ *wgpu.Buffer, _ uint64, data []byte) error {
	q.Writes++
	q.Bytes += uint64(len(data))
	return nil
}
