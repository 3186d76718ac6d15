package internal

import (
	"encoding/hex"
	"time"
)

// 文件记录，由扫描器产生，产生后不再修改
type FileRecord struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// 内容摘要，带算法标记
type Digest struct {
	Algorithm string
	Sum       []byte
}

func (d Digest) Hex() string {
	return hex.EncodeToString(d.Sum)
}

// Short 返回用于展示的截断摘要
func (d Digest) Short() string {
	h := d.Hex()
	if len(h) > ShortDigestLength {
		return h[:ShortDigestLength]
	}
	return h
}

// Key 用作分组的 map 键
func (d Digest) Key() string {
	return d.Algorithm + ":" + string(d.Sum)
}

func (d Digest) Equal(o Digest) bool {
	return d.Key() == o.Key()
}

// 已计算哈希的文件记录
type HashedRecord struct {
	FileRecord
	Digest Digest
	// 根据文件头识别的类型，无法识别时为空
	Kind string
}

// 重复文件集合，成员大小和摘要都相同，至少两个成员
type DuplicateSet struct {
	Digest  Digest
	Size    int64
	Kind    string
	Members []HashedRecord
}

func (s DuplicateSet) Copies() int {
	return len(s.Members)
}

// Wasted 多余副本占用的空间: size × (count − 1)
func (s DuplicateSet) Wasted() int64 {
	if len(s.Members) < 2 {
		return 0
	}
	return s.Size * int64(len(s.Members)-1)
}

// 失败阶段
type Stage string

const (
	StageScan Stage = "scan"
	StageHash Stage = "hash"
)

// 单个文件的跳过或失败记录，不会中断整体流程
type Failure struct {
	Path   string
	Stage  Stage
	Reason string
}

// 汇总统计
type Summary struct {
	Sets           int
	DuplicateFiles int
	WastedBytes    int64
}

// 扫描统计
type ScanStats struct {
	Listed     int
	Skipped    int
	BelowMin   int
	Hidden     int
	Singletons int
	Candidates int
	Hashed     int
	HashFailed int
	StartTime  time.Time
	EndTime    time.Time
}

// 检测结果
type Report struct {
	Root      string
	Algorithm string
	Sets      []DuplicateSet
	Summary   Summary
	Stats     ScanStats
	Failures  []Failure
}

// 进度更新
type ProgressUpdate struct {
	Processed   int
	Total       int
	CurrentFile string
	Failed      bool
}

// 删除结果
type OutcomeStatus string

const (
	OutcomeDeleted OutcomeStatus = "deleted"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeKept    OutcomeStatus = "kept"
)

// 单个文件的删除结果
type Outcome struct {
	SetIndex int
	Path     string
	Status   OutcomeStatus
	Reason   string
	Err      error
}

// 删除统计
type DeletionStats struct {
	Deleted    int
	Failed     int
	Skipped    int
	Kept       int
	FreedSpace int64
	Aborted    bool
}
