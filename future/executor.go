package future

import "github.com/saltfishpr/futures/future/executors"

// Executor 定义了执行异步工作的抽象：Submit 接收一个零参回调，并保证在将来的
// 某个时刻调用它。提交之间的执行顺序不作任何保证。
//
// 默认情况下使用标准 Go goroutines（executors.GoExecutor{}）来执行任务。
// 您可以使用 SetExecutor 通过 Executor 接口的任何实现来覆盖默认执行器，
// 常见的模式是使用 ExecutorFunc 来包装 goroutine 池，例如：
//
//	pool := ants.NewPool(100)
//	SetExecutor(ExecutorFunc(func(f func()) {
//	    pool.Submit(f)
//	}))
//
// 当 Then/OnError 未显式指定执行器、且底层状态尚未捕获调度器时，回退到该默认
// 执行器。
//
// 警告：向 SetExecutor 传递 nil 会 panic。
type Executor interface {
	Submit(func())
}

type ExecutorFunc func(func())

func (e ExecutorFunc) Submit(f func()) {
	e(f)
}

var executor Executor = executors.GoExecutor{}

func SetExecutor(e Executor) {
	if e == nil {
		panic("executor is nil")
	}
	executor = e
}
