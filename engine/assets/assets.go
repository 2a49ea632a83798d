package assets

import (
	"image"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/ephemeris"
)

type AssetInfo struct {
	// Path relative to the assets directory, slash separated.
	Path       string
	Type       ResourceType
	LastLoaded time.Time
}

// ChangeFunc is called from the watcher goroutine. Anything touching the
// scene must be handed to the frame goroutine.
type ChangeFunc func(info AssetInfo)

// AssetManager indexes the assets directory, loads files by type and reports
// changes on disk.
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[ResourceType]Loader

	mutex     sync.RWMutex
	listeners []ChangeFunc

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	running  bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, core.NewResourceError("fsnotify", err)
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[ResourceType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize(assetsDir string) error {
	root, err := filepath.Abs(assetsDir)
	if err != nil {
		return core.NewResourceError(assetsDir, err)
	}
	am.root = root

	// Register loaders
	am.registerLoader(ResourceTypeScene, &SceneLoader{})
	am.registerLoader(ResourceTypeEphemeris, &EphemerisLoader{})
	am.registerLoader(ResourceTypeTexture, &TextureLoader{})
	am.registerLoader(ResourceTypeShader, &ShaderLoader{})

	if err := am.addRecursive(root); err != nil {
		return core.NewResourceError(assetsDir, err)
	}

	am.running = true
	go am.start()

	core.LogInfo("watching %d assets under %s", am.Len(), root)
	return nil
}

// OnChange registers fn for created or modified assets.
func (am *AssetManager) OnChange(fn ChangeFunc) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.listeners = append(am.listeners, fn)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

func (am *AssetManager) Root() string {
	return am.root
}

// Path resolves an asset name against the assets directory.
func (am *AssetManager) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(am.root, filepath.FromSlash(name))
}

func (am *AssetManager) Lookup(name string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[am.key(name)]
	return info, ok
}

func (am *AssetManager) Len() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// LoadAsset loads an indexed asset with the loader for its type.
func (am *AssetManager) LoadAsset(name string, params interface{}) (*Resource, error) {
	key := am.key(name)

	am.mutex.Lock()
	asset, exists := am.assets[key]
	if exists {
		asset.LastLoaded = time.Now()
		am.assets[key] = asset
	}
	am.mutex.Unlock()
	if !exists {
		return nil, core.NewNotFoundError("asset", name)
	}

	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, core.NewConfigurationError(name, "no loader registered for %s assets", asset.Type)
	}
	return loader.Load(am.Path(key), params)
}

func (am *AssetManager) LoadScene(name string) (*SceneConfig, error) {
	res, err := am.loadTyped(name, ResourceTypeScene, nil)
	if err != nil {
		return nil, err
	}
	return res.Data.(*SceneConfig), nil
}

func (am *AssetManager) LoadTrack(name string) (*ephemeris.Track, error) {
	res, err := am.loadTyped(name, ResourceTypeEphemeris, nil)
	if err != nil {
		return nil, err
	}
	return res.Data.(*ephemeris.Track), nil
}

func (am *AssetManager) LoadTexture(name string, params TextureParams) (*image.RGBA, error) {
	res, err := am.loadTyped(name, ResourceTypeTexture, &params)
	if err != nil {
		return nil, err
	}
	return res.Data.(*image.RGBA), nil
}

func (am *AssetManager) LoadShader(name string) (string, error) {
	res, err := am.loadTyped(name, ResourceTypeShader, nil)
	if err != nil {
		return "", err
	}
	return res.Data.(string), nil
}

func (am *AssetManager) loadTyped(name string, want ResourceType, params interface{}) (*Resource, error) {
	if got := determineAssetType(name); got != want {
		return nil, core.NewConfigurationError(name, "expected a %s asset, not %s", want, got)
	}
	return am.LoadAsset(name, params)
}

// Close stops the watcher and waits for its goroutine.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	started := am.running
	am.mutex.Unlock()

	close(am.done)
	if started {
		<-am.stopped
		return nil
	}
	return am.fsnotify.Close()
}

func (am *AssetManager) key(name string) string {
	if filepath.IsAbs(name) {
		if rel, err := filepath.Rel(am.root, name); err == nil {
			name = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(name))
}
