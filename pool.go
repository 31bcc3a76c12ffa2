//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/edugrade/answer-eval/matcher"
	"github.com/edugrade/answer-eval/report"
)

type questionScoreParam struct {
	idx     int
	ctx     context.Context
	eng     *engine
	pairing *matcher.Pairing
	results []*report.QuestionEvaluation
	wg      *sync.WaitGroup
}

func (p *questionScoreParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.eng = nil
	p.pairing = nil
	p.results = nil
	p.wg = nil
}

var questionScoreParamPool = &sync.Pool{
	New: func() any { return new(questionScoreParam) },
}

func createQuestionScorePool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*questionScoreParam)
		if !ok {
			panic("question score pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			questionScoreParamPool.Put(param)
		}()
		param.results[param.idx] = param.eng.evaluateQuestion(param.ctx, param.pairing)
	})
	if err != nil {
		return nil, fmt.Errorf("create question score pool: %w", err)
	}
	return pool, nil
}
