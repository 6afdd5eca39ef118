// Package actionrender groups a playthrough's learner actions into display
// blocks and renders them as HTML fragments for the statistics view.
package actionrender

import "github.com/abhisek/playlens/internal/learneraction"

// MinBlockSize is the default number of actions a block must hold before
// a change of card may start a new block.
const MinBlockSize = 4

// Partitioner splits action sequences into display blocks.
type Partitioner struct {
	// MinBlockSize is the block size at which a card change closes the
	// block. Values below 1 are treated as 1.
	MinBlockSize int
}

// DisplayBlocks partitions actions using the default MinBlockSize.
func DisplayBlocks(actions []learneraction.LearnerAction) [][]learneraction.LearnerAction {
	return Partitioner{MinBlockSize: MinBlockSize}.DisplayBlocks(actions)
}

// DisplayBlocks walks the actions from the most recent backwards, growing
// the current block. Once a block holds at least MinBlockSize actions, the
// next earlier action starts a new block if its card differs from the card
// of the block's earliest action.
//
// A block is not one card: consecutive actions on different cards share a
// block until it reaches MinBlockSize, and a block of that size or more
// still takes in earlier actions on its earliest card.
//
// Blocks are returned in chronological order and concatenate back to the
// input. Empty input yields nil.
func (p Partitioner) DisplayBlocks(actions []learneraction.LearnerAction) [][]learneraction.LearnerAction {
	if len(actions) == 0 {
		return nil
	}
	minSize := p.MinBlockSize
	if minSize < 1 {
		minSize = 1
	}

	var blocks [][]learneraction.LearnerAction
	start, end := len(actions)-1, len(actions)
	for i := len(actions) - 2; i >= 0; i-- {
		if end-start >= minSize && actions[i].StateName() != actions[start].StateName() {
			blocks = append(blocks, actions[start:end:end])
			end = start
		}
		start = i
	}
	blocks = append(blocks, actions[start:end:end])
	reverse(blocks)
	return blocks
}

func reverse(blocks [][]learneraction.LearnerAction) {
	for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	}
}
