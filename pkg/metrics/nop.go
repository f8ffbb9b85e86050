package metrics

type nopTimer struct{}

func (nopTimer) ObserveDuration() {}

type nopPool struct{}

func (nopPool) TaskQueued()         {}
func (nopPool) TaskRejected()       {}
func (nopPool) TaskCompleted(bool)  {}
func (nopPool) TaskDuration() Timer { return nopTimer{} }
func (nopPool) PendingTasks(int)    {}

type nopMailbox struct{}

func (nopMailbox) EventAccepted(string)       {}
func (nopMailbox) EventRejected(string)       {}
func (nopMailbox) EventProcessed(bool)        {}
func (nopMailbox) ReentrantPost()             {}
func (nopMailbox) DrainDuration(string) Timer { return nopTimer{} }

// NopPool 返回不做任何事的 PoolMetrics
func NopPool() PoolMetrics { return nopPool{} }

// NopMailbox 返回不做任何事的 MailboxMetrics
func NopMailbox() MailboxMetrics { return nopMailbox{} }

// NopTimer 返回不做任何事的 Timer
func NopTimer() Timer { return nopTimer{} }
