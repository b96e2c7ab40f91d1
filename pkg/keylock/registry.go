package keylock

import "sync"

// Registry 依 key 發放互斥鎖。
// 每個 key 只會建立一次鎖，之後一律回傳同一實例；不同 key 的鎖互不阻塞。
// 鎖建立後不回收 (生命週期與 Registry 相同)。
type Registry[K comparable] struct {
	locks sync.Map // map[K]*sync.Mutex
}

// New 建立空的 Registry
func New[K comparable]() *Registry[K] {
	return &Registry[K]{}
}

// Acquire 取得 key 對應的鎖，不存在則建立。
// 建立透過 LoadOrStore 完成，並發首次存取時只有一個實例會被保存。
//
// 參數:
//
//	key: K - 要鎖定的對象 (例如帳戶 ID)
//
// 回傳值:
//
//	sync.Locker: 該 key 專屬的互斥鎖
func (r *Registry[K]) Acquire(key K) sync.Locker {
	// 1. Fast path: 已存在就不配置新鎖
	if v, ok := r.locks.Load(key); ok {
		return v.(*sync.Mutex)
	}
	// 2. 原子性 insert-if-absent，輸掉競爭的那份會被丟棄
	v, _ := r.locks.LoadOrStore(key, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Do 持有 key 的鎖執行 fn。
// 不論 fn 正常回傳、回傳錯誤或 panic，鎖都會被釋放。
func (r *Registry[K]) Do(key K, fn func() error) error {
	l := r.Acquire(key)
	l.Lock()
	defer l.Unlock()
	return fn()
}

// Len 目前已建立的鎖數量
func (r *Registry[K]) Len() int {
	n := 0
	r.locks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
