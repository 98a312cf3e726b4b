package hasher

import (
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/afero"

	"github.com/moyu-x/smart-organizer/internal"
	"github.com/moyu-x/smart-organizer/pkg/logger"
)

type HashTask struct {
	Path string
	Size int64
}

type HashResult struct {
	Path   string
	Digest string
	Size   int64
	Error  error
}

// HashPool 并行哈希计算池
// 哈希是整个流程中唯一无副作用的耗时操作，只有它被并行化；
// 调用方必须在所有结果合并完成后才开始移动或删除文件
type HashPool struct {
	fs      afero.Fs
	workers int
	tasks   chan HashTask
	results chan HashResult
	wg      sync.WaitGroup
	pool    *ants.Pool
}

func NewHashPool(fs afero.Fs, workers int) *HashPool {
	if workers <= 0 {
		workers = internal.DefaultWorkers
	}
	logger.Get().Debug().Msgf("创建哈希计算池，工作线程数: %d", workers)
	return &HashPool{
		fs:      fs,
		workers: workers,
		tasks:   make(chan HashTask, internal.DefaultBufferSize),
		results: make(chan HashResult, internal.DefaultBufferSize),
	}
}

func (p *HashPool) Start() error {
	logger.Get().Debug().Msgf("启动哈希计算池，启动 %d 个工作线程", p.workers)

	var err error
	p.pool, err = ants.NewPool(p.workers)
	if err != nil {
		logger.Get().Error().Err(err).Msg("创建 goroutine 池失败")
		return err
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		if err := p.pool.Submit(p.worker); err != nil {
			p.wg.Done()
			return err
		}
	}

	return nil
}

func (p *HashPool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		digest, err := Calculate(p.fs, task.Path)
		p.results <- HashResult{
			Path:   task.Path,
			Digest: digest,
			Size:   task.Size,
			Error:  err,
		}
	}
}

func (p *HashPool) AddTask(task HashTask) {
	p.tasks <- task
}

func (p *HashPool) Results() <-chan HashResult {
	return p.results
}

// Close 关闭任务队列并等待所有工作线程完成，再关闭结果通道
func (p *HashPool) Close() {
	logger.Get().Debug().Msg("关闭哈希计算池")

	close(p.tasks)
	p.wg.Wait()

	if p.pool != nil {
		p.pool.Release()
	}

	close(p.results)
}
