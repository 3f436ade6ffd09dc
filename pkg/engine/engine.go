package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"dirsnap/pkg/hasher"
	"dirsnap/pkg/ignore"
	"dirsnap/pkg/snapshot"
	"dirsnap/pkg/storage"
	"dirsnap/pkg/types"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrRootNotFound = errors.New("root directory not found")

// Config 在调用时显式传入，引擎不持有任何进程级状态
type Config struct {
	Root      string   // 被跟踪的根目录
	StorePath string   // 本地快照文件路径 (位于 Root 内时会被跳过)
	Workers   int      // 并行哈希的 worker 数，<= 1 表示顺序执行
	Ignore    []string // 附加忽略规则 (gitignore 语法)
}

// Engine 负责遍历目录、计算摘要，并与 Store 中的上一次快照比较
type Engine struct {
	cfg    Config
	store  storage.Store
	hasher *hasher.Hasher
	now    func() time.Time
}

func New(cfg Config, store storage.Store, h *hasher.Hasher) (*Engine, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	root, err := resolvePath(cfg.Root)
	if err != nil {
		return nil, err
	}
	cfg.Root = root

	if cfg.StorePath != "" {
		if cfg.StorePath, err = resolvePath(cfg.StorePath); err != nil {
			return nil, err
		}
	}
	if h == nil {
		h = hasher.New(hasher.DefaultChunkSize)
	}

	return &Engine{
		cfg:    cfg,
		store:  store,
		hasher: h,
		now:    time.Now,
	}, nil
}

// resolvePath 返回绝对路径并解析符号链接。
// WalkDir 不会进入作为根的符号链接，所以根目录必须先解析成真实路径；
// 路径还不存在时只解析父目录 (快照文件)，父目录也不存在时退回 Abs 结果
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		return filepath.Join(dir, filepath.Base(abs)), nil
	}
	return abs, nil
}

// Root 返回绝对根路径 (已解析符号链接)
func (e *Engine) Root() string { return e.cfg.Root }

// Rel 把快照中的绝对路径转换为相对根目录的路径，用于展示
func (e *Engine) Rel(path string) string {
	rel, err := filepath.Rel(e.cfg.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// CommitResult 描述一次 commit
type CommitResult struct {
	Snapshot  snapshot.Snapshot
	Files     []string // 排序后的绝对路径
	CreatedAt time.Time
}

// Commit 重新扫描整个目录并无条件覆盖已保存的快照
func (e *Engine) Commit(ctx context.Context) (*CommitResult, error) {
	createdAt := e.now()

	current, err := e.Scan(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.store.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	log.Info().
		Time("created_at", createdAt).
		Int("files", len(current)).
		Int("chunk_size", e.hasher.ChunkSize()).
		Str("root", e.cfg.Root).
		Msg("snapshot created")

	return &CommitResult{
		Snapshot:  current,
		Files:     current.Paths(),
		CreatedAt: createdAt,
	}, nil
}

// Status 比较当前目录与上一次快照，只报告当前存在的文件 (Edited / No changes)
func (e *Engine) Status(ctx context.Context) ([]snapshot.Change, error) {
	prev, current, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Status(prev, current), nil
}

// Changes 是 Status 的严格版本: 额外区分 New 和 Deleted
func (e *Engine) Changes(ctx context.Context) ([]snapshot.Change, error) {
	prev, current, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Diff(prev, current), nil
}

func (e *Engine) load(ctx context.Context) (prev, current snapshot.Snapshot, err error) {
	prev, err = e.store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	current, err = e.Scan(ctx)
	if err != nil {
		return nil, nil, err
	}
	return prev, current, nil
}

// Scan 遍历根目录下任意深度的普通文件并计算摘要
// 任何一个文件读取失败都会中止整个操作，不产生部分快照
func (e *Engine) Scan(ctx context.Context) (snapshot.Snapshot, error) {
	info, err := os.Stat(e.cfg.Root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, e.cfg.Root)
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, e.cfg.Root)
	}

	matcher, err := ignore.NewMatcher(e.cfg.Root, e.cfg.Ignore...)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore rules: %w", err)
	}

	files, err := e.listFiles(ctx, matcher)
	if err != nil {
		return nil, fmt.Errorf("walk failed: %w", err)
	}

	digests, err := e.hashFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	current := snapshot.New()
	for i, path := range files {
		current[path] = digests[i]
	}
	return current, nil
}

func (e *Engine) listFiles(ctx context.Context, matcher *ignore.Matcher) ([]string, error) {
	var files []string

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err // 权限错误等，直接中止
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == e.cfg.Root {
			return nil
		}

		rel := e.Rel(path)
		if d.IsDir() {
			if matcher.Matches(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		// 只处理普通文件: 符号链接不跟随，设备/管道/socket 跳过
		if !d.Type().IsRegular() {
			log.Debug().Str("path", rel).Str("mode", d.Type().String()).Msg("skipping non-regular file")
			return nil
		}
		if path == e.cfg.StorePath || matcher.Matches(rel) {
			return nil
		}

		files = append(files, path)
		return nil
	}

	if err := filepath.WalkDir(e.cfg.Root, walkFn); err != nil {
		return nil, err
	}
	return files, nil
}

func (e *Engine) hashFiles(ctx context.Context, files []string) ([]types.Digest, error) {
	digests := make([]types.Digest, len(files))

	if e.cfg.Workers <= 1 {
		for i, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			d, err := e.hasher.HashFile(path)
			if err != nil {
				return nil, err
			}
			digests[i] = d
			log.Debug().Str("file", e.Rel(path)).Str("digest", d.String()).Msg("hashed")
		}
		return digests, nil
	}

	// 并行只是性能优化: 每个 worker 写自己的下标，结果与顺序执行一致
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := e.hasher.HashFile(path)
			if err != nil {
				return err
			}
			digests[i] = d
			log.Debug().Str("file", e.Rel(path)).Str("digest", d.String()).Msg("hashed")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return digests, nil
}
